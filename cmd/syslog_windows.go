//go:build windows

package cmd

import "github.com/warpdl/credsync/pkg/logger"

// eventSource is the Event Log source registered by the installer.
const eventSource = "credsync"

func systemLogger() logger.Logger {
	el, err := logger.NewEventLogger(eventSource)
	if err != nil {
		return nil
	}
	return el
}

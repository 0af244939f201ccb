//go:build !windows

package cmd

import "github.com/warpdl/credsync/pkg/logger"

func systemLogger() logger.Logger {
	return nil
}

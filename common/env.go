// Package common provides the environment variables and paths shared by the
// credsync command line and its RPC server.
package common

import (
	"os"
	"path/filepath"
	"strconv"
)

// Environment variable names for configuration.
const (
	// PrimaryHostEnv overrides the plain host.
	PrimaryHostEnv = "CREDSYNC_PRIMARY_HOST"

	// MirrorHostEnv overrides the privileged mirror host.
	MirrorHostEnv = "CREDSYNC_MIRROR_HOST"

	// TokenHostEnv overrides the host that receives the auxiliary token.
	TokenHostEnv = "CREDSYNC_TOKEN_HOST"

	// RPCSecretEnv supplies the RPC bearer secret, bypassing the keyring.
	RPCSecretEnv = "CREDSYNC_RPC_SECRET"

	// RPCAddrEnv is the listen address of the RPC server.
	RPCAddrEnv = "CREDSYNC_RPC_ADDR"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "CREDSYNC_DEBUG"

	// ConfigDirEnv overrides the directory holding the secret fallback file.
	ConfigDirEnv = "CREDSYNC_CONFIG_DIR"
)

var userConfigDir = os.UserConfigDir

// ConfigDir returns the directory for credsync's own files. It honors
// CREDSYNC_CONFIG_DIR, then the user config directory, then the working
// directory.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	base, err := userConfigDir()
	if err != nil {
		return ".credsync"
	}
	return filepath.Join(base, "credsync")
}

// DebugEnabled reports whether CREDSYNC_DEBUG holds a true value.
func DebugEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && v
}

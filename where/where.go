// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/gabreek/mpv-handler-queue/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "MPV_HANDLER_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the MPV_HANDLER_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.MpvHandler))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		// Fallback: Revert to a localized cache directory if the system-provided path is inaccessible.
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.MpvHandler))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Cookies resolves the absolute path to the directory holding named browser cookie exports.
// The v_cookies URI parameter is looked up against this directory by filename.
func Cookies() string {
	return ensureDir(filepath.Join(Config(), "cookies"))
}

// MpvConfig resolves the path to the user's mpv.conf, used to sniff a preferred ytdl-format.
// The file is not required to exist.
func MpvConfig() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "mpv", "mpv.conf")
}

// DefaultSocket resolves the platform default control-channel address of a running mpv instance.
func DefaultSocket() string {
	if runtime.GOOS == constant.Windows {
		return `\\.\pipe\mpvsocket`
	}
	return "/tmp/mpvsocket"
}

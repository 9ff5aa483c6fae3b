// Package paths resolves the configuration directory, the data directory and
// user-supplied folder paths.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName is the directory name used under the platform config and data
// roots.
const AppName = "taskshelf"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TASKSHELF_CONFIG_DIR"
	EnvDataDir   = "TASKSHELF_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/taskshelf (fallback ~/.config/taskshelf)
// Others:  os.UserConfigDir()/taskshelf
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/taskshelf (fallback ~/.local/share/taskshelf)
// Others:  os.UserConfigDir()/taskshelf
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > TASKSHELF_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, os.Getenv(EnvConfigDir), DefaultConfigDir)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > TASKSHELF_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if configValue != "" && flag == "" {
		return Expand(configValue)
	}
	return resolve(flag, os.Getenv(EnvDataDir), DefaultDataDir)
}

func resolve(flag, env string, fallback func() (string, error)) (string, error) {
	for _, p := range []string{flag, env} {
		if p != "" {
			return Expand(p)
		}
	}
	return fallback()
}

// Expand replaces a leading ~ with the home directory and makes p absolute.
func Expand(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

// Package config provides configuration management for rcl.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for rcl.
// All paths are relative to the base directory (~/.rcl on Unix,
// %APPDATA%\rcl on Windows).
type Paths struct {
	// BaseDir is the root directory for all rcl files (~/.rcl).
	BaseDir string
}

// DefaultPaths returns the default paths.
// Unix: ~/.rcl
// Windows: %APPDATA%\rcl
func DefaultPaths() *Paths {
	// Check for RCL_HOME override first (works on all platforms).
	if rclHome := os.Getenv("RCL_HOME"); rclHome != "" {
		return &Paths{BaseDir: rclHome}
	}

	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return &Paths{BaseDir: filepath.Join(appData, "rcl")}
	}

	return &Paths{BaseDir: filepath.Join(home, ".rcl")}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.BaseDir, "history.db")
}

// ImportLockFile returns the path to the advisory lock guarding the
// first-run history import.
func (p *Paths) ImportLockFile() string {
	return filepath.Join(p.BaseDir, "import.lock")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.BaseDir, "logs")
}

// LogFile returns the path to the rcl log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "rcl.log")
}

// EnsureDirs creates the base and log directories if absent.
func (p *Paths) EnsureDirs() error {
	if err := os.MkdirAll(p.BaseDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(p.LogDir(), 0o755)
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return "."
}

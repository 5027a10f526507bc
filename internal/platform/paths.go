// Package platform resolves per-OS config and data locations.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths holds the resolved filesystem locations for one app instance.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Resolve returns the config/data paths for the named app. Dev mode keeps
// a separate <app>-dev tree so a development build never touches real data.
func Resolve(appName string, devMode bool) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = "tavla"
	}
	if devMode {
		appName += "-dev"
	}

	configBase, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataBase := configBase
	if runtime.GOOS == "linux" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", homeErr)
		}
		dataBase = filepath.Join(home, ".local", "share")
		if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
			dataBase = v
		}
		if v := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); v != "" {
			configBase = v
		}
	}
	if runtime.GOOS == "windows" {
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			dataBase = v
		}
	}

	return pathsUnder(configBase, dataBase, appName)
}

// pathsUnder assembles the app-scoped paths below the given base dirs.
func pathsUnder(configBase, dataBase, appName string) (Paths, error) {
	if configBase == "" || dataBase == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, appName+".db"),
	}, nil
}

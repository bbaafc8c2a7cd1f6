package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// DefaultAppName names config and data directories when no override is given.
const DefaultAppName = "tabula"

// Environment variables consulted by Resolve.
const (
	EnvAppName = "TABULA_APP_NAME"
	EnvDevMode = "TABULA_DEV_MODE"
	EnvConfig  = "TABULA_CONFIG"
	EnvDBPath  = "TABULA_DB_PATH"
)

// Paths holds the resolved on-disk locations for one app name.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
	ExportDir  string
}

// Options selects the app name and dev-mode suffix.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths returns paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: DefaultAppName})
}

// DefaultPathsWithOptions resolves paths from the current OS and environment.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = DefaultAppName
	}
	if opts.DevMode {
		appName += "-dev"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir := configDir
	if runtime.GOOS == "linux" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", homeErr)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	env := map[string]string{
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   os.Getenv("XDG_DATA_HOME"),
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, appName)
}

// PathsFor computes paths for goos from explicit base directories and environment.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}

	configBase := userConfigDir
	dataBase := userDataDir

	switch goos {
	case "linux":
		if v := env["XDG_CONFIG_HOME"]; v != "" {
			configBase = v
		}
		if v := env["XDG_DATA_HOME"]; v != "" {
			dataBase = v
		}
	case "windows":
		if v := env["APPDATA"]; v != "" {
			configBase = v
		}
		if v := env["LOCALAPPDATA"]; v != "" {
			dataBase = v
		}
	}

	appDataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    appDataDir,
		DBPath:     filepath.Join(appDataDir, appName+".db"),
		ExportDir:  filepath.Join(appDataDir, "exports"),
	}, nil
}

// Overrides carries explicit flag values that win over the environment.
type Overrides struct {
	AppName    string
	DevMode    *bool
	ConfigPath string
	DBPath     string
}

// Resolved is the final location set after flags and environment are applied.
type Resolved struct {
	Paths
	AppName      string
	DevMode      bool
	DBOverridden bool
}

// Resolve applies flag overrides, then TABULA_* variables from getenv, then
// the platform defaults. defaultDev is used when neither flag nor env sets dev mode.
func Resolve(o Overrides, getenv func(string) string, defaultDev bool) (Resolved, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	out := Resolved{AppName: strings.TrimSpace(o.AppName), DevMode: defaultDev}
	if out.AppName == "" {
		out.AppName = strings.TrimSpace(getenv(EnvAppName))
	}
	if out.AppName == "" {
		out.AppName = DefaultAppName
	}
	switch {
	case o.DevMode != nil:
		out.DevMode = *o.DevMode
	default:
		if v, ok := ParseBoolEnv(getenv(EnvDevMode)); ok {
			out.DevMode = v
		}
	}

	paths, err := DefaultPathsWithOptions(Options{AppName: out.AppName, DevMode: out.DevMode})
	if err != nil {
		return Resolved{}, err
	}
	out.Paths = paths

	if v := strings.TrimSpace(o.ConfigPath); v != "" {
		out.ConfigPath = v
	} else if v := strings.TrimSpace(getenv(EnvConfig)); v != "" {
		out.ConfigPath = v
	}
	if v := strings.TrimSpace(o.DBPath); v != "" {
		out.DBPath = v
		out.DBOverridden = true
	} else if v := strings.TrimSpace(getenv(EnvDBPath)); v != "" {
		out.DBPath = v
		out.DBOverridden = true
	}
	return out, nil
}

// ParseBoolEnv parses a boolean environment value; ok is false when unset or invalid.
func ParseBoolEnv(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

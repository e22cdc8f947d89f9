package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "wordgraph"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "WORDGRAPH_CONFIG"
	// EnvLogLevel sets the log level (debug, info, warn, error).
	EnvLogLevel = "WORDGRAPH_LOG_LEVEL"
)

// GlobalConfigPath returns the default config file path.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/wordgraph/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// ResolvePath picks the config file to load: an explicit path wins, then
// $WORDGRAPH_CONFIG, then the global config path.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return ExpandPath(explicit)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return ExpandPath(env)
	}
	return GlobalConfigPath()
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}

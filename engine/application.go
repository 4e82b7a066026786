package engine

import (
	"github.com/spaghettifunk/terra/engine/config"
)

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string
	// Path of the file Config was loaded from. Empty when running on defaults.
	ConfigPath string
	// Reload the config file while running. Requires ConfigPath.
	WatchConfig bool
	Config      *config.Config
}

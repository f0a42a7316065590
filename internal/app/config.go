package app

import (
	"errors"
	"time"
)

// Config holds everything an App instance needs to run a graph.
type Config struct {
	// GraphPath points at the snapshot file to load and execute.
	GraphPath string
	// ModulesPath is the directory of .hcl node template manifests.
	ModulesPath string

	LogFormat string
	LogLevel  string

	// StatusPort serves the status/snapshot HTTP endpoints. 0 disables.
	StatusPort int

	// TickInterval paces the engine; zero selects the default.
	TickInterval time.Duration

	// VizURL, when set, connects a socket.io publisher that streams run
	// events to a rendering frontend.
	VizURL string
	// VizNamespace is the socket.io namespace for run events.
	VizNamespace string

	// StartPaused holds the run before its first item for stepping via
	// the status API.
	StartPaused bool
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.StartPaused && cfg.StatusPort <= 0 {
		// A paused run can only advance through the control API; without
		// it the process would wait forever.
		return nil, errors.New("StartPaused requires StatusPort so the run can be stepped")
	}
	if cfg.ModulesPath == "" {
		cfg.ModulesPath = "manifests"
	}
	return &cfg, nil
}

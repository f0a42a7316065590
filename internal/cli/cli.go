// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/nodewire/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodewire", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nodewire - a visual node-graph interpreter.

Usage:
  nodewire [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a graph snapshot (.json) to load and execute.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph snapshot file.")
	gFlag := flagSet.String("g", "", "Path to the graph snapshot file (shorthand).")
	modulesPathFlag := flagSet.String("modules-path", "manifests", "Directory containing node template manifests (.hcl).")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the status/control HTTP server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	tickFlag := flagSet.Duration("tick", 0, "Pacing delay between execution ticks (e.g. 250ms). 0 selects the default.")
	vizURLFlag := flagSet.String("viz-url", "", "socket.io URL of a rendering frontend to stream run events to.")
	vizNamespaceFlag := flagSet.String("viz-namespace", "", "socket.io namespace for run events.")
	pausedFlag := flagSet.Bool("paused", false, "Start the run paused, for stepping via the status API.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *tickFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid tick: must not be negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPath:    path,
		ModulesPath:  *modulesPathFlag,
		StatusPort:   *statusPortFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		TickInterval: time.Duration(*tickFlag),
		VizURL:       *vizURLFlag,
		VizNamespace: *vizNamespaceFlag,
		StartPaused:  *pausedFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

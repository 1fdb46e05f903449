package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/op/go-logging"

	"github.com/balzaczyy/gosearch/core/config"
)

var log = logging.MustGetLogger("gosearch")

// Modules whose level follows the configured one.
var logModules = []string{"", "gosearch", "search", "spans", "index"}

// setupLogging installs a go-logging backend writing to w.
func setupLogging(w io.Writer, cfg config.LoggingConfig) error {
	level, err := logging.LogLevel(strings.ToUpper(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	format, err := logging.NewStringFormatter(cfg.Format)
	if err != nil {
		return fmt.Errorf("invalid log format %q: %w", cfg.Format, err)
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	for _, module := range logModules {
		leveled.SetLevel(level, module)
	}
	logging.SetBackend(leveled)
	return nil
}

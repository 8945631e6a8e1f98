// Package common carries the ambient scaffolding shared by every component:
// logging, configuration, the error taxonomy, and the run context threaded
// through a single scrape or process invocation.
package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// Logger is the logging interface every component accepts at construction.
// There is no package-level logger singleton: components are handed one
// explicitly so a RunContext can scope a child logger per run without
// mutating shared state.
type Logger = arbor.ILogger

// NewLogger builds a logger per the logging configuration. Call once at
// startup and pass the result (or a WithContextWriter child of it) into
// every constructor down the call chain.
func NewLogger(cfg LoggingConfig) Logger {
	logger := arbor.NewLogger()

	wantsFile := false
	wantsConsole := false
	for _, out := range cfg.Output {
		switch out {
		case "file":
			wantsFile = true
		case "stdout", "console":
			wantsConsole = true
		}
	}
	if !wantsFile && !wantsConsole {
		wantsConsole = true
	}

	if wantsFile && cfg.FilePath != "" {
		logger = logger.WithFileWriter(writerConfig(cfg, models.LogWriterTypeFile, cfg.FilePath))
	}
	if wantsConsole {
		logger = logger.WithConsoleWriter(writerConfig(cfg, models.LogWriterTypeConsole, ""))
	}

	return logger.WithLevelFromString(cfg.Level)
}

func writerConfig(cfg LoggingConfig, writerType models.LogWriterType, filename string) models.WriterConfiguration {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "15:04:05.000"
	}
	return models.WriterConfiguration{
		Type:       writerType,
		FileName:   filename,
		TimeFormat: timeFormat,
		MaxSize:    100 * 1024 * 1024,
		MaxBackups: 3,
	}
}

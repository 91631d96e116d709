// Package logger wires the standard library logger to a rotating log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log file rotation
type Config struct {
	LogDir     string
	LogFile    string
	MaxSize    int // max size of a single file (MB)
	MaxBackups int // rotated files to keep
	MaxAge     int // days to keep rotated files
	Compress   bool
	Console    bool // also write to stdout
}

// DefaultConfig returns the config used when none is supplied
func DefaultConfig() *Config {
	return &Config{
		LogDir:     "logs",
		LogFile:    "app.log",
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
		Console:    true,
	}
}

// Setup redirects the standard library logger to a rotating file
func Setup(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, cfg.LogFile),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	var writer io.Writer = rotator
	if cfg.Console {
		writer = io.MultiWriter(os.Stdout, rotator)
	}

	log.SetOutput(writer)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	log.Printf("📝 Logging initialized")
	log.Printf("📂 Log file: %s", rotator.Filename)
	log.Printf("📊 Rotation: %dMB per file, %d backups, %d days retention", cfg.MaxSize, cfg.MaxBackups, cfg.MaxAge)

	return nil
}

// Package log configures the global logrus logger.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/crxfetch/internal/config"
)

// Init configures the logrus standard logger from config. Log output
// goes to stderr so command results on stdout stay clean; file output
// is added when enabled.
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stderr}
	if cfg.File.Enabled {
		w, err := fileWriter(cfg.File)
		if err != nil {
			return fmt.Errorf("failed to create log file output: %w", err)
		}
		writers = append(writers, w)
	}
	logrus.SetOutput(io.MultiWriter(writers...))

	return nil
}

// fileWriter creates a lumberjack writer for log rotation.
func fileWriter(fc config.FileLogConfig) (io.Writer, error) {
	if fc.Path == "" {
		return nil, fmt.Errorf("file output requires 'path' field")
	}
	return &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   fc.Compress,
	}, nil
}

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *logrus.Logger

// FileOptions configures rotating file output. An empty Filename keeps logging on stdout only.
type FileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
}

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	return InitLoggerWithFile(logLevel, isDevelopment, FileOptions{})
}

// InitLoggerWithFile initializes the logger and tees output into a rotating log file
func InitLoggerWithFile(logLevel string, isDevelopment bool, file FileOptions) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	var out io.Writer = os.Stdout
	if file.Filename != "" {
		maxSize := file.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file.Filename,
			MaxSize:    maxSize,
			MaxBackups: file.MaxBackups,
			Compress:   true,
		})
	}
	log.SetOutput(out)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithTournamentContext creates a logger with tournament and course context
func WithTournamentContext(tournament, course string) *logrus.Entry {
	fields := logrus.Fields{}
	if tournament != "" {
		fields["tournament"] = tournament
	}
	if course != "" {
		fields["course"] = course
	}
	return GetLogger().WithFields(fields)
}

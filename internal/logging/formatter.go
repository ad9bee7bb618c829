package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-leanclone/internal/jsonutil"
)

// StructuredFormatter provides JSON output formatting for structured logging.
type StructuredFormatter struct {
	// DisableTimestamp disables automatic timestamp generation
	DisableTimestamp bool
	// TimestampFormat sets the format for the timestamp field
	TimestampFormat string
}

// NewStructuredFormatter creates a new StructuredFormatter with default settings.
func NewStructuredFormatter() *StructuredFormatter {
	return &StructuredFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a logrus.Entry as JSON with standardized fields.
func (f *StructuredFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(logrus.Fields, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if !f.DisableTimestamp {
		timestampFormat := f.TimestampFormat
		if timestampFormat == "" {
			timestampFormat = time.RFC3339
		}
		data[StandardFields.Timestamp] = entry.Time.Format(timestampFormat)
	}

	jsonBytes, err := jsonutil.MarshalJSON(data)
	if err != nil {
		return nil, err // Error already wrapped by jsonutil
	}

	return append(jsonBytes, '\n'), nil
}

// ConfigureLogger configures a logrus.Logger instance based on LogConfig settings.
//
// Verbose flags override the explicit log level; any component debug flag
// raises the level to debug so the component's entries are emitted.
func ConfigureLogger(logger *logrus.Logger, config *LogConfig) error {
	if config == nil {
		return nil
	}

	var level logrus.Level
	var err error

	switch {
	case config.Verbose == 1:
		level = logrus.DebugLevel
	case config.Verbose >= 2:
		level = logrus.TraceLevel
	case config.LogLevel != "":
		level, err = logrus.ParseLevel(config.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
	default:
		level = logrus.InfoLevel
	}

	if config.Debug.Any() && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	logger.SetLevel(level)
	logger.AddHook(NewRedactionHook())

	if config.LogFormat == "json" {
		logger.SetFormatter(NewStructuredFormatter())
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return nil
}

// WithStandardFields creates a logrus.Entry with correlation ID and component info.
func WithStandardFields(logger *logrus.Logger, config *LogConfig, component string) *logrus.Entry {
	fields := logrus.Fields{
		StandardFields.Component: component,
	}

	if config != nil && config.CorrelationID != "" {
		fields[StandardFields.CorrelationID] = config.CorrelationID
	}

	return logger.WithFields(fields)
}

// Discard returns an entry that writes nowhere, for callers that pass no logger.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

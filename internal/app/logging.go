package app

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggerConfig configures the session logger.
type LoggerConfig struct {
	// Level is debug, info, warn or error.
	Level string

	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer

	// Session tags every entry. A random one is used when empty.
	Session string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Output: os.Stderr,
	}
}

// NewLogger creates a text logger and the session entry every component
// logger derives from.
func NewLogger(cfg LoggerConfig) (*logrus.Entry, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, NewOperationError("parse", "log level", err)
	}
	if cfg.Session == "" {
		cfg.Session = uuid.NewString()
	}

	l := logrus.New()
	l.SetOutput(cfg.Output)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})
	return l.WithField("session", cfg.Session), nil
}

// NullLogger returns an entry that discards everything.
func NullLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// WithComponent returns a logger with the component field set.
func WithComponent(log *logrus.Entry, component string) *logrus.Entry {
	return log.WithField("component", component)
}

// DeferredWriter holds log output while the terminal screen is active
// and releases it once the screen is restored.
type DeferredWriter struct {
	mu     sync.Mutex
	target io.Writer
	held   bool
	buf    bytes.Buffer
}

// NewDeferredWriter creates a writer that passes through to target until
// Hold is called.
func NewDeferredWriter(target io.Writer) *DeferredWriter {
	return &DeferredWriter{target: target}
}

// Write buffers p while held and writes through otherwise.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.held {
		return w.buf.Write(p)
	}
	return w.target.Write(p)
}

// Hold starts buffering.
func (w *DeferredWriter) Hold() {
	w.mu.Lock()
	w.held = true
	w.mu.Unlock()
}

// Release writes buffered output to the target and stops buffering.
func (w *DeferredWriter) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.held = false
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.target.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// logState is the shared sink a Logger and every Logger derived from it via
// WithComponent write through; the mutex, the optional log file, and the
// output all live here so tagging a sub-logger never forks where log lines
// end up.
type logState struct {
	mu     sync.Mutex
	logger *log.Logger
	file   *os.File
}

// Logger is a leveled logger tagged with the engine component that owns
// it — "catalog", "commander" — so a dispatch trace reads as a
// sequence of named stages rather than an undifferentiated stream.
type Logger struct {
	debug     bool
	component string
	state     *logState
}

// NewLogger creates a root logger writing to stdout. debug controls whether
// Debug-level lines are emitted.
func NewLogger(debug bool) *Logger {
	return &Logger{
		debug: debug,
		state: &logState{
			logger: log.New(os.Stdout, "", log.LstdFlags),
		},
	}
}

// WithComponent returns a logger that shares l's output and debug setting
// but tags every line with name, e.g. logger.WithComponent("catalog").
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{debug: l.debug, component: name, state: l.state}
}

// SetFile routes subsequent output to path in addition to stdout, creating
// parent directories as needed.
func (l *Logger) SetFile(path string) error {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	if l.state.file != nil {
		l.state.file.Close()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.state.file = file
	l.state.logger.SetOutput(file)
	return nil
}

// Debug logs a debug-level line; suppressed unless the logger was built
// with debug enabled.
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.debug {
		l.log("DEBUG", format, v...)
	}
}

// Info logs an info-level line, e.g. a catalog load or extension mount.
func (l *Logger) Info(format string, v ...interface{}) {
	l.log("INFO", format, v...)
}

// Warn logs a warn-level line, e.g. a dispatch falling back to defaults.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log("WARN", format, v...)
}

// Error logs an error-level line.
func (l *Logger) Error(format string, v ...interface{}) {
	l.log("ERROR", format, v...)
}

func (l *Logger) log(level, format string, v ...interface{}) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, v...)
	var output string
	if l.component != "" {
		output = fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, l.component, message)
	} else {
		output = fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)
	}

	if l.state.file != nil {
		l.state.logger.Print(output)
	}
	fmt.Println(output)
}

// Close releases the log file, if one was opened with SetFile.
func (l *Logger) Close() error {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	if l.state.file != nil {
		return l.state.file.Close()
	}
	return nil
}

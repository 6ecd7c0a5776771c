// Package logger provides structured logging for the game process.
// The terminal belongs to the player, so log output goes to whatever sink
// the process chooses at start-up (a file, or nowhere).
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger provides structured logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a logger writing every level to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "[PETS-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(w, "[PETS-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(w, "[PETS-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(io.Discard)
}

// OpenFile returns a logger appending to path, and the file so the caller
// can close it. An empty path yields a discarding logger and a nil closer.
func OpenFile(path string) (*Logger, io.Closer, error) {
	if path == "" {
		return Discard(), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f), f, nil
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Output(2, msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Output(2, msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Output(2, msg)
}

// Event logs a game event with the pet or subsystem that caused it.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.infoLogger.Output(2, fmt.Sprintf("[EVENT:%s] Actor:%s | %s", eventType, actorID, details))
}

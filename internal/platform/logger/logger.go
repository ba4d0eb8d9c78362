// Package logger provides structured logging for the simulation server.
// Every zone transition the engine makes should be traceable through this.
package logger

import (
	"log"
	"os"
)

// Logger provides leveled logging with printf-style formatting.
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debug       bool
}

// NewLogger creates a new logger instance. Debug output is off by default.
func NewLogger() *Logger {
	return &Logger{
		debugLogger: log.New(os.Stdout, "[CITY-DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile),
		infoLogger:  log.New(os.Stdout, "[CITY-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[CITY-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[CITY-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// EnableDebug turns on tile-level diagnostic output.
func (l *Logger) EnableDebug() { l.debug = true }

// Debug logs tile-level diagnostics. Advisory only; the simulation never
// reads them back.
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.debug {
		l.debugLogger.Printf(format, v...)
	}
}

// Info logs informational messages.
func (l *Logger) Info(format string, v ...interface{}) {
	l.infoLogger.Printf(format, v...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.warnLogger.Printf(format, v...)
}

// Error logs error messages.
func (l *Logger) Error(format string, v ...interface{}) {
	l.errorLogger.Printf(format, v...)
}

// Event logs a specific zone event for operator oversight.
func (l *Logger) Event(eventType string, x, y int, details string) {
	l.infoLogger.Printf("[EVENT:%s] (%d,%d) | %s", eventType, x, y, details)
}

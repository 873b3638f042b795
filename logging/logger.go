package logging

import (
	"sync"
)

// LogMessage is anything the logger can display
type LogMessage interface {
	display()
	isError() bool
}

// Logger is a type that is responsible for storing and logging output from the
// analyzer as necessary
type Logger struct {
	errorCount int // Total encountered errors
	LogLevel   int

	// warnings is a list of all warnings to be logged at the end of analysis
	warnings []LogMessage

	// m is the mutex used to synchonize the printing of messages
	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors and closing notification (success/fail)
	LogLevelWarning        // errors, warnings, and closing message
	LogLevelVerbose        // errors, warnings, version and phase progress, closing message (DEFAULT)
)

// newLogger creates a new logger struct
func newLogger(loglevel int) Logger {
	return Logger{
		LogLevel: loglevel,
		m:        &sync.Mutex{},
	}
}

// handleMsg prompts to logger to process a message.  Errors are displayed
// immediately; warnings are held back until the end of analysis.
func (l *Logger) handleMsg(lm LogMessage) {
	l.m.Lock()
	defer l.m.Unlock()

	if lm.isError() {
		l.errorCount++

		if l.LogLevel > LogLevelSilent {
			displayEndPhase(false)
			lm.display()
		}
	} else {
		l.warnings = append(l.warnings, lm)
	}
}

// finish displays the held back warnings and the closing summary
func (l *Logger) finish() {
	l.m.Lock()
	defer l.m.Unlock()

	if l.LogLevel >= LogLevelWarning {
		for _, w := range l.warnings {
			w.display()
		}
	}

	if l.LogLevel > LogLevelSilent {
		displayFinished(l.errorCount == 0, l.errorCount, len(l.warnings))
	}
}

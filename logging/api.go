package logging

// logger is a global reference to a shared Logger (created/initialized by the
// command line, but separated for general usage)
var logger = newLogger(LogLevelVerbose)

// Initialize initializes the global logger with the provided log level
func Initialize(loglevelname string) {
	logger = newLogger(LevelFromName(loglevelname))
}

// LevelFromName converts a log level name into its level.  Everything else
// (including invalid log levels) defaults to verbose.
func LevelFromName(loglevelname string) int {
	switch loglevelname {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warning", "warn":
		return LogLevelWarning
	default:
		return LogLevelVerbose
	}
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors
func ShouldProceed() bool {
	return logger.errorCount == 0
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.

// LogDiagnostic logs an analysis diagnostic
func LogDiagnostic(d *Diagnostic) {
	logger.handleMsg(d)
}

// LogConfigError logs an error related to project or analyzer configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogHeader displays the analyzer version and project before analysis starts
func LogHeader(project string) {
	if logger.LogLevel == LogLevelVerbose {
		displayHeader(project)
	}
}

// LogBeginPhase displays the start of an analysis phase
func LogBeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// LogEndPhase displays the end of the current analysis phase
func LogEndPhase() {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(ShouldProceed())
	}
}

// LogFinished displays held back warnings and the closing summary
func LogFinished() {
	logger.finish()
}

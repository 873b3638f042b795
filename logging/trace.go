package logging

import (
	"go.uber.org/zap"
)

// tracer receives structured traces of the analysis passes.  It discards
// everything until EnableTrace is called.
var tracer = zap.NewNop()

// EnableTrace switches the trace logger to a development logger writing to
// stderr
func EnableTrace() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}

	tracer = l
	return nil
}

// SetTracer installs l as the trace logger
func SetTracer(l *zap.Logger) {
	tracer = l
}

// Trace returns the shared trace logger
func Trace() *zap.Logger {
	return tracer
}

package common

const (
	ProjectFileName = "Veryl.toml"
	VerylVersion    = "0.1.0"

	// DefaultInstanceDepthLimit bounds the active chain of generic
	// elaborations.
	DefaultInstanceDepthLimit = 1024

	// DefaultInstanceTotalLimit bounds the number of distinct generic
	// elaborations over a whole analysis.
	DefaultInstanceTotalLimit = 1024 * 1024

	// BuiltinNamespace is the root scope of every builtin symbol
	BuiltinNamespace = "$"

	// SystemVerilogNamespace is the escape hatch into raw SystemVerilog
	SystemVerilogNamespace = "sv"
)

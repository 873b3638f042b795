package depm

import (
	"github.com/veryl-lang/veryl-sub003/common"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// systemFunctions are the IEEE 1800 system tasks and functions callable as
// `$name`
var systemFunctions = []string{
	"acos", "acosh", "asin", "asinh", "atan", "atan2", "atanh",
	"bits", "bitstoreal", "bitstoshortreal", "cast", "ceil", "changed",
	"clog2", "cos", "cosh", "countbits", "countones", "dimensions",
	"display", "displayb", "displayh", "displayo", "dumpfile", "dumpvars",
	"error", "exit", "exp", "fatal", "fclose", "fdisplay", "feof", "fell",
	"fflush", "fgetc", "fgets", "finish", "floor", "fopen", "fscanf",
	"fwrite", "high", "hypot", "increment", "info", "isunbounded",
	"isunknown", "itor", "left", "ln", "log10", "low", "monitor", "onehot",
	"onehot0", "past", "pow", "random", "readmemb", "readmemh", "realtime",
	"realtobits", "right", "rose", "rtoi", "sampled", "sformat", "sformatf",
	"shortrealtobits", "signed", "sin", "sinh", "size", "sqrt", "sscanf",
	"stable", "stime", "stop", "strobe", "swrite", "tan", "tanh",
	"test$plusargs", "time", "timeformat", "typename", "unpacked_dimensions",
	"unsigned", "value$plusargs", "warning", "write", "writememb", "writememh",
}

// insertUniverse seeds the builtin `$` namespace: the `sv` escape hatch and
// every system function
func (st *SymbolTable) insertUniverse() Namespace {
	ns := NewNamespace(resource.InsertStr(common.BuiltinNamespace))

	st.mustInsertBuiltin(common.SystemVerilogNamespace, &SystemVerilogKind{}, ns)
	for _, name := range systemFunctions {
		st.mustInsertBuiltin(name, &SystemFunctionKind{}, ns)
	}

	return ns
}

func (st *SymbolTable) mustInsertBuiltin(name string, kind SymbolKind, ns Namespace) {
	if _, err := st.Insert(resource.BuiltinToken(name), kind, ns, true); err != nil {
		panic(err)
	}
}

// BuiltinNamespace is the scope holding every builtin symbol
func (st *SymbolTable) BuiltinNamespace() Namespace {
	return st.builtin
}

// IsBuiltin reports whether sym belongs to the builtin universe
func (st *SymbolTable) IsBuiltin(sym *Symbol) bool {
	return sym.Namespace.Equal(st.builtin)
}

package eval

import (
	"strconv"

	"github.com/veryl-lang/veryl-sub003/depm"
)

// ValueKind classifies an evaluated parameter value
type ValueKind int

const (
	Unknown ValueKind = iota // not computable at analysis time
	Fixed                    // a concrete integer
	VarRef                   // depends on a runtime value
)

// Value is the result of evaluating a parameter expression
type Value struct {
	Kind  ValueKind
	Fixed int64

	// Ref is the symbol a VarRef value depends on
	Ref depm.SymbolID
}

// FixedValue builds a concrete value
func FixedValue(v int64) Value {
	return Value{Kind: Fixed, Fixed: v}
}

// UnknownValue is the value of anything that can not be evaluated
func UnknownValue() Value {
	return Value{Kind: Unknown}
}

// RefValue builds a value depending on the runtime value of ref
func RefValue(ref depm.SymbolID) Value {
	return Value{Kind: VarRef, Ref: ref}
}

// IsConcrete reports whether the value is a known constant
func (v Value) IsConcrete() bool {
	return v.Kind == Fixed
}

func (v Value) String() string {
	switch v.Kind {
	case Fixed:
		return strconv.FormatInt(v.Fixed, 10)
	case VarRef:
		return "&" + strconv.FormatUint(uint64(v.Ref), 10)
	default:
		return "?"
	}
}

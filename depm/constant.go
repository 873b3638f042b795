package depm

import (
	"math"

	"github.com/veryl-lang/veryl-sub003/ast"
)

// noAssumption marks an answer that did not rely on any function still being
// analyzed
const noAssumption = math.MaxInt

// IsConstantFunction reports whether the function id only uses its own ports,
// parameters and other constant functions, which makes it callable in a
// parameter expression.  The answer is computed on first use and cached on the
// symbol.
func (st *SymbolTable) IsConstantFunction(id SymbolID) bool {
	constant, _ := st.isConstantFunction(id, make(map[SymbolID]int))
	return constant
}

// isConstantFunction also returns the lowest stack depth of an in-progress
// function the answer assumed to be constant.  visiting maps every function on
// the analysis stack to its depth.  A positive answer is only cached once no
// caller it relied on is still in progress; a negative answer is always final.
func (st *SymbolTable) isConstantFunction(id SymbolID, visiting map[SymbolID]int) (bool, int) {
	sym := st.Get(id)

	fp, ok := sym.Kind.(*FunctionProperty)
	if !ok {
		_, builtin := sym.Kind.(*SystemFunctionKind)
		return builtin, noAssumption
	}

	if fp.constant != nil {
		return *fp.constant, noAssumption
	}

	// a recursive call is constant as long as the rest of the cycle is
	if depth, ok := visiting[id]; ok {
		return true, depth
	}

	depth := len(visiting)
	visiting[id] = depth
	defer delete(visiting, id)

	constant, lowest := true, noAssumption
	if fp.Decl != nil {
		inner := sym.InnerNamespace()
	loop:
		for _, expr := range fp.Decl.Body {
			for _, si := range ast.Identifiers(expr) {
				res, err := st.Resolve(PathOf(si), inner)
				if err != nil {
					constant = false
					break loop
				}

				ok, assumed := st.isConstantUse(res.Found, inner, visiting)
				lowest = min(lowest, assumed)
				if !ok {
					constant = false
					break loop
				}
			}
		}
	}

	if !constant || lowest >= depth {
		fp.constant = &constant
	}

	return constant, lowest
}

func (st *SymbolTable) isConstantUse(used *Symbol, fnScope Namespace, visiting map[SymbolID]int) (bool, int) {
	switch used.Kind.(type) {
	case *ParameterProperty, *GenericParameterProperty, *EnumMemberProperty, *SystemFunctionKind:
		return true, noAssumption
	case *PortProperty:
		return used.Namespace.Equal(fnScope), noAssumption
	case *FunctionProperty:
		return st.isConstantFunction(used.ID, visiting)
	}

	return false, noAssumption
}

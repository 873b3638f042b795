package eval

import (
	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
)

// maxEvalDepth bounds chains of parameters defined in terms of each other
const maxEvalDepth = 64

// Evaluator computes parameter expressions.  Bindings map generic (and
// overridden) parameters to the values of the elaboration in progress; every
// other name is looked up in the symbol table.
type Evaluator struct {
	table    *depm.SymbolTable
	bindings map[depm.SymbolID]Value
}

// NewEvaluator creates an evaluator over table with the given bindings
func NewEvaluator(table *depm.SymbolTable, bindings map[depm.SymbolID]Value) *Evaluator {
	return &Evaluator{table: table, bindings: bindings}
}

// Eval evaluates e as written inside ns
func (ev *Evaluator) Eval(e ast.Expr, ns depm.Namespace) Value {
	return ev.eval(e, ns, 0)
}

func (ev *Evaluator) eval(e ast.Expr, ns depm.Namespace, depth int) Value {
	if e == nil || depth > maxEvalDepth {
		return UnknownValue()
	}

	switch v := e.(type) {
	case *ast.Number:
		return FixedValue(v.Value)
	case *ast.Ident:
		return ev.evalIdent(v, ns, depth)
	case *ast.Unary:
		return unary(v.Op, ev.eval(v.Operand, ns, depth+1))
	case *ast.Binary:
		return binary(v.Op, ev.eval(v.Left, ns, depth+1), ev.eval(v.Right, ns, depth+1))
	}

	// calls are never folded
	return UnknownValue()
}

func (ev *Evaluator) evalIdent(id *ast.Ident, ns depm.Namespace, depth int) Value {
	res, err := ev.table.Resolve(depm.PathOf(id.Path), ns)
	if err != nil || res.External {
		return UnknownValue()
	}

	sym := res.Found
	if bound, ok := ev.bindings[sym.ID]; ok {
		return bound
	}

	switch k := sym.Kind.(type) {
	case *depm.ParameterProperty:
		return ev.eval(k.Value, sym.Namespace, depth+1)
	case *depm.EnumMemberProperty:
		return ev.eval(k.Value, sym.Namespace, depth+1)
	case *depm.GenericParameterProperty:
		return UnknownValue()
	case *depm.VariableProperty, *depm.PortProperty:
		return RefValue(sym.ID)
	}

	return UnknownValue()
}

func unary(op string, x Value) Value {
	if !x.IsConcrete() {
		return x
	}

	switch op {
	case "-":
		return FixedValue(-x.Fixed)
	case "!":
		return boolValue(x.Fixed == 0)
	case "~":
		return FixedValue(^x.Fixed)
	case "+":
		return x
	}

	return UnknownValue()
}

func binary(op string, l, r Value) Value {
	if l.Kind == VarRef {
		return l
	}
	if r.Kind == VarRef {
		return r
	}
	if !l.IsConcrete() || !r.IsConcrete() {
		return UnknownValue()
	}

	a, b := l.Fixed, r.Fixed
	switch op {
	case "+":
		return FixedValue(a + b)
	case "-":
		return FixedValue(a - b)
	case "*":
		return FixedValue(a * b)
	case "/":
		if b == 0 {
			return UnknownValue()
		}
		return FixedValue(a / b)
	case "%":
		if b == 0 {
			return UnknownValue()
		}
		return FixedValue(a % b)
	case "<<":
		if b < 0 || b > 63 {
			return UnknownValue()
		}
		return FixedValue(a << uint(b))
	case ">>":
		if b < 0 || b > 63 {
			return UnknownValue()
		}
		return FixedValue(a >> uint(b))
	case "&":
		return FixedValue(a & b)
	case "|":
		return FixedValue(a | b)
	case "^":
		return FixedValue(a ^ b)
	case "==":
		return boolValue(a == b)
	case "!=":
		return boolValue(a != b)
	case "<":
		return boolValue(a < b)
	case "<=":
		return boolValue(a <= b)
	case ">":
		return boolValue(a > b)
	case ">=":
		return boolValue(a >= b)
	case "&&":
		return boolValue(a != 0 && b != 0)
	case "||":
		return boolValue(a != 0 || b != 0)
	}

	return UnknownValue()
}

func boolValue(b bool) Value {
	if b {
		return FixedValue(1)
	}

	return FixedValue(0)
}

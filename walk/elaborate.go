package walk

import (
	"errors"
	"strings"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/eval"
	"github.com/veryl-lang/veryl-sub003/inst"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
	"go.uber.org/zap"
)

// elaborate instantiates the generic symbol base with args, written in sc at
// token at.  Each distinct signature is elaborated once: its body is walked
// again with the generic parameters bound, which is where recursive
// instantiations are found.  The returned ID is the generic instance symbol.
func (w *Walker) elaborate(base *depm.Symbol, args []ast.Expr, sc scope, at resource.Token) (depm.SymbolID, bool) {
	params := genericParameters(base)
	if len(params) == 0 {
		w.report(logging.NewError(
			logging.MismatchGenericsArity, at,
			"`%s` is a %s without generic parameters", base.Name(), base.Kind.KindName(),
		))
		return 0, false
	}

	if len(args) > len(params) {
		w.report(logging.NewError(
			logging.MismatchGenericsArity, at,
			"`%s` takes %d generic arguments but %d were given", base.Name(), len(params), len(args),
		))
		return 0, false
	}

	sig := inst.NewSignature(base.ID)
	bindings := make(map[depm.SymbolID]eval.Value, len(params))
	rendered := make([]string, 0, len(params))

	for i, pid := range params {
		gp := w.table.Get(pid)
		prop := gp.Kind.(*depm.GenericParameterProperty)

		var (
			value eval.Value
			text  string
			ok    bool
		)
		switch {
		case i < len(args):
			value, text, ok = w.genericArgument(prop, args[i], sc)
		case prop.Default != nil:
			// defaults are written in the generic's own scope and may use the
			// parameters bound before them
			w.quiet++
			value, text, ok = w.genericArgument(prop, prop.Default, scope{ns: base.InnerNamespace(), bindings: bindings})
			w.quiet--
		default:
			w.report(logging.NewError(
				logging.MismatchGenericsArity, at,
				"`%s` takes %d generic arguments but %d were given", base.Name(), len(params), len(args),
			))
			return 0, false
		}

		if !ok {
			return 0, false
		}

		bindings[pid] = value
		sig.AddParam(gp.Name(), value)
		rendered = append(rendered, text)
	}

	fresh, err := w.history.Push(*sig)
	if err != nil {
		w.reportHistory(err, base, at)
		return 0, false
	}
	defer w.history.Pop()

	if !fresh {
		if memo, ok := w.history.Get(*sig); ok {
			if id, ok := memo.(depm.SymbolID); ok {
				return id, true
			}
		}

		return 0, false
	}

	id := w.insertInstance(base, rendered, at)
	w.history.Set(*sig, id)

	w.trace().Debug("elaborating",
		zap.String("base", base.Name().String()),
		zap.Strings("arguments", rendered),
		zap.Int("depth", w.history.Depth()),
	)

	w.quiet++
	w.resolveBody(base, scope{ns: base.InnerNamespace(), owner: base.ID, bindings: bindings})
	w.quiet--

	return id, true
}

// genericArgument evaluates one argument against the bound of its parameter.
// It returns the bound value and its rendering in the instance name.
func (w *Walker) genericArgument(prop *depm.GenericParameterProperty, arg ast.Expr, sc scope) (eval.Value, string, bool) {
	if prop.Bound == ast.BoundConst {
		if call, ok := w.nonConstantCall(arg, sc); ok {
			w.report(logging.NewError(
				logging.InvalidGenericArgument, call.Func.Last().Ident,
				"`%s` can not be evaluated as a constant", call.Func,
			))
			return eval.Value{}, "", false
		}

		value := eval.NewEvaluator(w.table, sc.bindings).Eval(arg, sc.ns)
		if value.Kind == eval.VarRef {
			w.report(logging.NewError(
				logging.InvalidGenericArgument, arg.Pos(),
				"`%s` is a variable and can not be a generic argument", w.table.Get(value.Ref).Name(),
			))
			return eval.Value{}, "", false
		}

		return value, value.String(), true
	}

	id, ok := arg.(*ast.Ident)
	if !ok {
		w.report(logging.NewError(
			logging.InvalidGenericArgument, arg.Pos(),
			"a %s generic argument must name a symbol", boundName(prop.Bound),
		))
		return eval.Value{}, "", false
	}

	res, err := w.table.Resolve(depm.PathOf(id.Path), sc.ns)
	if err != nil {
		// already reported when the argument was resolved
		return eval.UnknownValue(), "?", true
	}
	if res.External {
		return eval.UnknownValue(), id.Path.String(), true
	}

	target := res.Found
	if gp, ok := target.Kind.(*depm.GenericParameterProperty); ok {
		if bound, ok := sc.bindings[target.ID]; ok {
			if bound.Kind == eval.Fixed {
				if sym, ok := w.table.Lookup(depm.SymbolID(bound.Fixed)); ok {
					return bound, sym.Name().String(), true
				}
			}
			return bound, bound.String(), true
		}

		if gp.Bound != ast.BoundConst {
			return eval.UnknownValue(), "?", true
		}
	}

	valid := isType(target)
	if prop.Bound == ast.BoundProto {
		switch target.Kind.(type) {
		case *depm.ModuleProperty, *depm.InterfaceProperty, *depm.PackageProperty, *depm.GenericInstanceProperty:
			valid = true
		default:
			valid = false
		}
	}

	if !valid {
		w.report(logging.NewError(
			logging.InvalidGenericArgument, id.Path.Last().Ident,
			"`%s` is a %s and can not bind a %s generic parameter", target.Name(), target.Kind.KindName(), boundName(prop.Bound),
		))
		return eval.Value{}, "", false
	}

	return eval.FixedValue(int64(target.ID)), target.Name().String(), true
}

func boundName(b ast.BoundKind) string {
	switch b {
	case ast.BoundType:
		return "type"
	case ast.BoundProto:
		return "proto"
	}

	return "const"
}

// nonConstantCall finds a call to a function that can not be evaluated at
// elaboration time
func (w *Walker) nonConstantCall(e ast.Expr, sc scope) (*ast.Call, bool) {
	switch v := e.(type) {
	case *ast.Binary:
		if c, ok := w.nonConstantCall(v.Left, sc); ok {
			return c, true
		}
		return w.nonConstantCall(v.Right, sc)
	case *ast.Unary:
		return w.nonConstantCall(v.Operand, sc)
	case *ast.Call:
		res, err := w.table.Resolve(depm.PathOf(v.Func), sc.ns)
		if err == nil && !res.External {
			if _, ok := res.Found.Kind.(*depm.FunctionProperty); ok && !w.table.IsConstantFunction(res.Found.ID) {
				return v, true
			}
		}

		for _, a := range v.Args {
			if c, ok := w.nonConstantCall(a, sc); ok {
				return c, true
			}
		}
	}

	return nil, false
}

func (w *Walker) reportHistory(err error, base *depm.Symbol, at resource.Token) {
	code := logging.InfiniteRecursion
	switch {
	case errors.Is(err, inst.ErrExceedDepthLimit):
		code = logging.ExceedDepthLimit
	case errors.Is(err, inst.ErrExceedTotalLimit):
		code = logging.ExceedTotalLimit
	}

	w.report(logging.NewError(code, at, "elaborating `%s`: %s", base.Name(), err))
}

// insertInstance returns the generic instance symbol of base with the rendered
// arguments, inserting it on first use
func (w *Walker) insertInstance(base *depm.Symbol, rendered []string, at resource.Token) depm.SymbolID {
	name := resource.InsertStr("__" + base.Name().String() + "__" + strings.Join(rendered, "__"))

	if existing, ok := w.table.Find(name, base.Namespace); ok {
		if gi, ok := existing.Kind.(*depm.GenericInstanceProperty); ok && gi.Base == base.ID {
			return existing.ID
		}
	}

	tok := at
	tok.ID = resource.NewTokenID()
	tok.Text = name

	prop := &depm.GenericInstanceProperty{Base: base.ID, Arguments: rendered}
	id, _ := w.table.Insert(tok, prop, base.Namespace, base.Public)
	w.table.AddGenericInstance(base.ID, id)
	return id
}

// genericParameters are the generic parameters of a symbol in declaration order
func genericParameters(sym *depm.Symbol) []depm.SymbolID {
	switch k := sym.Kind.(type) {
	case *depm.ModuleProperty:
		return k.GenericParameters
	case *depm.InterfaceProperty:
		return k.GenericParameters
	case *depm.PackageProperty:
		return k.GenericParameters
	}

	return nil
}

// resolveBody re-walks the body of a generic with its parameters bound
func (w *Walker) resolveBody(base *depm.Symbol, sc scope) {
	switch k := base.Kind.(type) {
	case *depm.ModuleProperty:
		w.resolveModule(k.Decl, sc)
	case *depm.InterfaceProperty:
		w.resolveInterface(k.Decl, sc)
	case *depm.PackageProperty:
		w.resolveAll(k.Decl.Body, sc)
	}
}

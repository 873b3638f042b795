package walk

import (
	"errors"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/eval"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
	"go.uber.org/zap"
)

// Resolve resolves every name used by the file's declarations, recording
// references and dependencies and elaborating generic uses.  It runs after
// every file has been declared and every import applied.
func (w *Walker) Resolve() {
	sc := scope{ns: w.root}
	for _, d := range w.file.Decls {
		w.resolveDecl(d, sc)
	}

	w.trace().Debug("resolved file", zap.Int("diagnostics", len(w.rep.Diagnostics())))
}

func (w *Walker) resolveAll(decls []ast.Decl, sc scope) {
	for _, d := range decls {
		w.resolveDecl(d, sc)
	}
}

func (w *Walker) resolveDecl(d ast.Decl, sc scope) {
	switch v := d.(type) {
	case *ast.ModuleDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			w.resolveGenerics(v.GenericParams, inner)
			w.resolveModule(v, inner)
		}
	case *ast.InterfaceDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			w.resolveGenerics(v.GenericParams, inner)
			w.resolveInterface(v, inner)
		}
	case *ast.PackageDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			w.resolveGenerics(v.GenericParams, inner)
			w.resolveAll(v.Body, inner)
		}
	case *ast.ProtoModuleDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), 0)
			w.resolveParams(v.Params, inner)
			w.resolvePorts(v.Ports, inner)
		}
	case *ast.ProtoInterfaceDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), 0)
			w.resolveParams(v.Params, inner)
			w.resolveAll(v.Body, inner)
		}
	case *ast.ProtoPackageDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			w.resolveAll(v.Body, sc.enter(sym.InnerNamespace(), 0))
		}
	case *ast.ParamDecl:
		w.resolveParams([]*ast.ParamDecl{v}, sc)
	case *ast.PortDecl:
		w.resolvePorts([]*ast.PortDecl{v}, sc)
	case *ast.VarDecl:
		w.resolveType(v.Type, sc)
	case *ast.StructDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			for _, m := range v.Members {
				w.resolveType(m.Type, inner)
			}
		}
	case *ast.EnumDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			w.resolveType(v.Type, inner)
			for _, m := range v.Members {
				w.resolveExpr(m.Value, inner)
			}
		}
	case *ast.TypeDefDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			w.resolveType(v.Type, sc.enter(sc.ns, sym.ID))
		}
	case *ast.ModportDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			w.resolveModport(v, sym, sc)
		}
	case *ast.InstDecl:
		w.resolveInst(v, sc)
	case *ast.FunctionDecl:
		if sym, ok := w.declared(v.Name, sc.ns); ok {
			inner := sc.enter(sym.InnerNamespace(), sym.ID)
			w.resolvePorts(v.Ports, inner)
			w.resolveType(v.Return, inner)
			for _, e := range v.Body {
				w.resolveExpr(e, inner)
			}
		}
	case *ast.ImportDecl:
		// applied before resolution
	case *ast.AssignDecl:
		w.resolvePath(v.Target, sc)
		w.resolveExpr(v.Value, sc)
	case *ast.IfDecl:
		w.resolveIf(v, sc)
	}
}

// resolveModule resolves the header and body of a module.  Generic parameters
// are resolved separately: an elaboration re-walks only this part.
func (w *Walker) resolveModule(v *ast.ModuleDecl, sc scope) {
	w.resolveParams(v.Params, sc)
	w.resolvePorts(v.Ports, sc)

	if v.Implements != nil {
		if res, ok := w.resolvePath(v.Implements, sc); ok && !res.External {
			if _, ok := res.Found.Kind.(*depm.ProtoModuleProperty); !ok {
				w.report(logging.NewError(
					logging.MismatchType, v.Implements.Last().Ident,
					"`%s` is a %s, not a proto module", res.Found.Name(), res.Found.Kind.KindName(),
				))
			}
		}
	}

	w.resolveAll(v.Body, sc)
}

func (w *Walker) resolveInterface(v *ast.InterfaceDecl, sc scope) {
	w.resolveParams(v.Params, sc)
	w.resolveAll(v.Body, sc)
}

func (w *Walker) resolveGenerics(params []*ast.GenericParam, sc scope) {
	for _, gp := range params {
		w.resolveType(gp.Type, sc)
		if gp.Proto != nil {
			if res, ok := w.resolvePath(gp.Proto, sc); ok && !res.External && !isProto(res.Found) {
				w.report(logging.NewError(
					logging.MismatchType, gp.Proto.Last().Ident,
					"`%s` is a %s, not a proto", res.Found.Name(), res.Found.Kind.KindName(),
				))
			}
		}

		w.resolveExpr(gp.Default, sc)
	}
}

func (w *Walker) resolveParams(params []*ast.ParamDecl, sc scope) {
	for _, p := range params {
		psc := sc
		if p.Const {
			if sym, ok := w.declared(p.Name, sc.ns); ok {
				psc = sc.enter(sc.ns, sym.ID)
			}
		}

		w.resolveType(p.Type, psc)
		w.resolveExpr(p.Value, psc)
	}
}

func (w *Walker) resolvePorts(ports []*ast.PortDecl, sc scope) {
	for _, p := range ports {
		if p.Direction != ast.DirModport {
			w.resolveType(p.Type, sc)
			continue
		}

		// `port: modport Bus::master`
		if p.Type == nil || p.Type.Path == nil {
			continue
		}

		if res, ok := w.resolvePath(p.Type.Path, sc); ok && !res.External {
			switch res.Found.Kind.(type) {
			case *depm.ModportProperty, *depm.InterfaceProperty, *depm.GenericParameterProperty:
			default:
				w.report(logging.NewError(
					logging.MismatchType, p.Type.Path.Last().Ident,
					"`%s` is a %s, not a modport", res.Found.Name(), res.Found.Kind.KindName(),
				))
			}
		}
	}
}

// resolveType resolves the names of a type expression and checks that a
// user-defined type names a type
func (w *Walker) resolveType(t *ast.TypeExpr, sc scope) {
	if t == nil {
		return
	}

	for _, e := range t.Width {
		w.resolveExpr(e, sc)
	}
	for _, e := range t.Array {
		w.resolveExpr(e, sc)
	}

	if t.Path == nil {
		return
	}

	res, ok := w.resolvePath(t.Path, sc)
	if !ok || res.External {
		return
	}

	if !isType(res.Found) {
		w.report(logging.NewError(
			logging.MismatchType, t.Path.Last().Ident,
			"`%s` is a %s, not a type", res.Found.Name(), res.Found.Kind.KindName(),
		))
	}
}

func (w *Walker) resolveExpr(e ast.Expr, sc scope) {
	switch v := e.(type) {
	case *ast.Ident:
		w.resolvePath(v.Path, sc)
	case *ast.Binary:
		w.resolveExpr(v.Left, sc)
		w.resolveExpr(v.Right, sc)
	case *ast.Unary:
		w.resolveExpr(v.Operand, sc)
	case *ast.Call:
		if res, ok := w.resolvePath(v.Func, sc); ok && !res.External && !isCallable(res.Found) {
			w.report(logging.NewError(
				logging.MismatchType, v.Func.Last().Ident,
				"`%s` is a %s, not a function", res.Found.Name(), res.Found.Kind.KindName(),
			))
		}

		for _, a := range v.Args {
			w.resolveExpr(a, sc)
		}
	}
}

// resolvePath resolves a scoped identifier written in sc.  On success the
// references, separators and dependencies of the path are recorded and its
// generic arguments elaborated; on failure an undefined identifier is
// reported and false returned.
func (w *Walker) resolvePath(si *ast.ScopedIdentifier, sc scope) (*depm.ResolveResult, bool) {
	res, err := w.table.Resolve(depm.PathOf(si), sc.ns)
	if err != nil {
		var re *depm.ResolveError
		if errors.As(err, &re) {
			w.report(logging.NewError(logging.UndefinedIdentifier, failingSegment(si, re), "%s", re.Error()))
		}

		for _, seg := range si.Segments {
			for _, a := range seg.Args {
				w.resolveExpr(a, sc)
			}
		}
		return nil, false
	}

	for i, id := range res.FullPath {
		if w.quiet == 0 {
			w.table.AddReference(id, si.Segments[i].Ident)
		}
	}

	for _, i := range w.table.CheckSeparators(res, si.Separators) {
		seg := si.Segments[i+1]
		want := ast.SepScope
		if si.Separators[i] == ast.SepScope {
			want = ast.SepDot
		}

		w.report(logging.NewError(
			logging.WrongSeparator, seg.Ident,
			"`%s` must be accessed with `%s`", seg.Ident.Text, want,
		))
	}

	for _, id := range res.FullPath {
		w.addDependency(sc, w.table.Get(id))
	}

	for i, seg := range si.Segments {
		if len(seg.Args) == 0 {
			continue
		}

		for _, a := range seg.Args {
			w.resolveExpr(a, sc)
		}

		if i < len(res.FullPath) {
			if id, ok := w.elaborate(w.table.Get(res.FullPath[i]), seg.Args, sc, seg.Ident); ok && w.quiet == 0 {
				w.table.AddReference(id, seg.Ident)
			}
		}
	}

	return res, true
}

// failingSegment is the token of the first segment that could not be found
func failingSegment(si *ast.ScopedIdentifier, re *depm.ResolveError) resource.Token {
	if re.LastFound != nil {
		for _, seg := range si.Segments[1:] {
			if seg.Ident.Text == re.NotFound {
				return seg.Ident
			}
		}
	}

	return si.Segments[0].Ident
}

// addDependency records that the owner of sc uses sym
func (w *Walker) addDependency(sc scope, sym *depm.Symbol) {
	if sc.owner == 0 {
		return
	}

	if gi, ok := sym.Kind.(*depm.GenericInstanceProperty); ok {
		sym = w.table.Get(gi.Base)
	}

	if isDagNode(sym) {
		w.table.AddDependency(sc.owner, sym.ID)
	}
}

func (w *Walker) resolveModport(v *ast.ModportDecl, sym *depm.Symbol, sc scope) {
	for _, item := range v.Items {
		member, ok := w.table.Find(item.Name.Text, sc.ns)
		if !ok {
			w.report(logging.NewError(
				logging.UndefinedIdentifier, item.Name,
				"`%s` is not found in `%s`", item.Name.Text, sc.ns,
			))
			continue
		}

		if w.quiet == 0 {
			w.table.AddReference(member.ID, item.Name)
		}

		switch member.Kind.(type) {
		case *depm.VariableProperty:
		case *depm.FunctionProperty:
			w.table.AddDependency(sym.ID, member.ID)
		default:
			w.report(logging.NewError(
				logging.MismatchType, item.Name,
				"`%s` is a %s; a modport can only list variables and functions", member.Name(), member.Kind.KindName(),
			))
		}
	}
}

// resolveInst resolves an instantiation: its target and the parameters and
// ports connected to it
func (w *Walker) resolveInst(v *ast.InstDecl, sc scope) {
	for _, p := range v.Params {
		w.resolveExpr(p.Value, sc)
	}
	for _, p := range v.Ports {
		w.resolveExpr(p.Expr, sc)
	}

	res, ok := w.resolvePath(v.Type, sc)
	if !ok || res.External {
		return
	}

	target := res.Found
	if gi, ok := target.Kind.(*depm.GenericInstanceProperty); ok {
		target = w.table.Get(gi.Base)
	}

	switch k := target.Kind.(type) {
	case *depm.ModuleProperty, *depm.InterfaceProperty, *depm.ProtoModuleProperty, *depm.ProtoInterfaceProperty:
	case *depm.GenericParameterProperty:
		if k.Bound != ast.BoundProto {
			w.report(logging.NewError(
				logging.MismatchType, v.Type.Last().Ident,
				"`%s` is not bound to a proto and can not be instantiated", target.Name(),
			))
		}
		return
	default:
		w.report(logging.NewError(
			logging.MismatchType, v.Type.Last().Ident,
			"`%s` is a %s, not a module or interface", target.Name(), target.Kind.KindName(),
		))
		return
	}

	inner := target.InnerNamespace()
	for _, p := range v.Params {
		w.connect(p.Name, inner, target, func(k depm.SymbolKind) bool {
			param, ok := k.(*depm.ParameterProperty)
			return ok && param.Scope == depm.ParamGlobal
		}, "parameter")
	}
	for _, p := range v.Ports {
		w.connect(p.Name, inner, target, func(k depm.SymbolKind) bool {
			_, ok := k.(*depm.PortProperty)
			return ok
		}, "port")
	}
}

// connect checks that an instance connection names a member of the target
// with the expected kind
func (w *Walker) connect(name resource.Token, inner depm.Namespace, target *depm.Symbol, want func(depm.SymbolKind) bool, what string) {
	member, ok := w.table.Find(name.Text, inner)
	if !ok || !want(member.Kind) {
		w.report(logging.NewError(
			logging.UndefinedIdentifier, name,
			"`%s` is not a %s of `%s`", name.Text, what, target.Name(),
		))
		return
	}

	if w.quiet == 0 {
		w.table.AddReference(member.ID, name)
	}
}

// resolveIf resolves a generate-if.  While elaborating, a condition that
// evaluates to a constant selects a single branch so that a shrinking
// recursion can reach its base case.
func (w *Walker) resolveIf(v *ast.IfDecl, sc scope) {
	sym, ok := w.declared(v.Name, sc.ns)
	if !ok {
		return
	}

	w.resolveExpr(v.Cond, sc)

	then, other := true, true
	if sc.bindings != nil {
		cond := eval.NewEvaluator(w.table, sc.bindings).Eval(v.Cond, sc.ns)
		if cond.Kind == eval.Fixed {
			then, other = cond.Fixed != 0, cond.Fixed == 0
		}
	}

	if then {
		w.resolveAll(v.Then, sc.enter(sym.InnerNamespace(), 0))
	}
	if other {
		w.resolveAll(v.Else, sc.enter(elseNamespace(sc.ns, v.Name), 0))
	}
}

// isType reports whether sym can be used where a type is expected
func isType(sym *depm.Symbol) bool {
	switch k := sym.Kind.(type) {
	case *depm.StructProperty, *depm.UnionProperty, *depm.EnumProperty, *depm.TypeDefProperty,
		*depm.InterfaceProperty, *depm.ProtoInterfaceProperty, *depm.ModportProperty,
		*depm.GenericInstanceProperty, *depm.SystemVerilogKind:
		return true
	case *depm.GenericParameterProperty:
		return k.Bound != ast.BoundConst
	}

	return false
}

func isProto(sym *depm.Symbol) bool {
	switch sym.Kind.(type) {
	case *depm.ProtoModuleProperty, *depm.ProtoInterfaceProperty, *depm.ProtoPackageProperty:
		return true
	}

	return false
}

func isCallable(sym *depm.Symbol) bool {
	switch k := sym.Kind.(type) {
	case *depm.FunctionProperty, *depm.ProtoFunctionProperty, *depm.SystemFunctionKind, *depm.SystemVerilogKind:
		return true
	case *depm.GenericParameterProperty:
		return k.Bound == ast.BoundProto
	}

	return false
}

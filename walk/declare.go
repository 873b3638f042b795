package walk

import (
	"errors"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
	"go.uber.org/zap"
)

// importRequest is an import declaration waiting for every file to be declared
type importRequest struct {
	decl *ast.ImportDecl
	ns   depm.Namespace
}

// Declare inserts every declaration of the file into the symbol table.  No
// name is resolved yet.
func (w *Walker) Declare() {
	w.imports = nil
	for _, d := range w.file.Decls {
		w.declare(d, w.root)
	}

	w.trace().Debug("declared file", zap.Int("imports", len(w.imports)))
}

// define inserts a symbol, reporting a duplicate.  It returns false when the
// declaration was rejected; its body must then not be declared.
func (w *Walker) define(tok resource.Token, kind depm.SymbolKind, ns depm.Namespace, public bool) (depm.SymbolID, bool) {
	id, err := w.table.Insert(tok, kind, ns, public)
	if err != nil {
		var dup *depm.DuplicateError
		if errors.As(err, &dup) {
			w.report(logging.NewError(
				logging.DuplicatedIdentifier, tok,
				"`%s` is already defined in `%s`", tok.Text, ns,
			))
		}

		return 0, false
	}

	return id, true
}

func (w *Walker) declare(d ast.Decl, ns depm.Namespace) {
	switch v := d.(type) {
	case *ast.ModuleDecl:
		prop := &depm.ModuleProperty{Proto: v.Implements, Decl: v}
		if _, ok := w.define(v.Name, prop, ns, v.Public); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		prop.GenericParameters = w.declareGenerics(v.GenericParams, inner)
		prop.Parameters = w.declareParams(v.Params, inner)
		prop.Ports = w.declarePorts(v.Ports, inner)
		w.declareAll(v.Body, inner)
	case *ast.InterfaceDecl:
		prop := &depm.InterfaceProperty{Decl: v}
		if _, ok := w.define(v.Name, prop, ns, v.Public); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		prop.GenericParameters = w.declareGenerics(v.GenericParams, inner)
		prop.Parameters = w.declareParams(v.Params, inner)
		w.declareAll(v.Body, inner)
	case *ast.PackageDecl:
		prop := &depm.PackageProperty{Decl: v}
		if _, ok := w.define(v.Name, prop, ns, v.Public); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		prop.GenericParameters = w.declareGenerics(v.GenericParams, inner)
		w.declareAll(v.Body, inner)
	case *ast.ProtoModuleDecl:
		prop := &depm.ProtoModuleProperty{}
		if _, ok := w.define(v.Name, prop, ns, v.Public); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		prop.Parameters = w.declareParams(v.Params, inner)
		prop.Ports = w.declarePorts(v.Ports, inner)
	case *ast.ProtoInterfaceDecl:
		prop := &depm.ProtoInterfaceProperty{}
		if _, ok := w.define(v.Name, prop, ns, v.Public); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		prop.Parameters = w.declareParams(v.Params, inner)
		w.declareAll(v.Body, inner)
	case *ast.ProtoPackageDecl:
		if _, ok := w.define(v.Name, &depm.ProtoPackageProperty{}, ns, v.Public); ok {
			w.declareAll(v.Body, ns.Push(v.Name.Text))
		}
	case *ast.ParamDecl:
		w.declareParams([]*ast.ParamDecl{v}, ns)
	case *ast.PortDecl:
		w.declarePorts([]*ast.PortDecl{v}, ns)
	case *ast.VarDecl:
		w.define(v.Name, &depm.VariableProperty{Type: v.Type}, ns, false)
	case *ast.StructDecl:
		w.declareStruct(v, ns)
	case *ast.EnumDecl:
		prop := &depm.EnumProperty{Type: v.Type}
		if _, ok := w.define(v.Name, prop, ns, false); !ok {
			return
		}

		inner := ns.Push(v.Name.Text)
		for _, m := range v.Members {
			if id, ok := w.define(m.Name, &depm.EnumMemberProperty{Value: m.Value}, inner, false); ok {
				prop.Members = append(prop.Members, id)
			}
		}
	case *ast.TypeDefDecl:
		w.define(v.Name, &depm.TypeDefProperty{Type: v.Type}, ns, false)
	case *ast.ModportDecl:
		prop := &depm.ModportProperty{}
		for _, item := range v.Items {
			prop.Members = append(prop.Members, depm.ModportMember{Name: item.Name.Text, Direction: item.Direction})
		}
		w.define(v.Name, prop, ns, false)
	case *ast.InstDecl:
		w.define(v.Name, &depm.InstanceProperty{Type: v.Type, Decl: v}, ns, false)
	case *ast.FunctionDecl:
		prop := &depm.FunctionProperty{Return: v.Return, Decl: v}
		if _, ok := w.define(v.Name, prop, ns, v.Public); ok {
			prop.Ports = w.declarePorts(v.Ports, ns.Push(v.Name.Text))
		}
	case *ast.ImportDecl:
		w.imports = append(w.imports, importRequest{decl: v, ns: ns})
	case *ast.IfDecl:
		if _, ok := w.define(v.Name, &depm.BlockKind{}, ns, false); !ok {
			return
		}

		w.declareAll(v.Then, ns.Push(v.Name.Text))
		w.declareAll(v.Else, elseNamespace(ns, v.Name))
	case *ast.AssignDecl:
		// only uses names
	}
}

func (w *Walker) declareAll(decls []ast.Decl, ns depm.Namespace) {
	for _, d := range decls {
		w.declare(d, ns)
	}
}

func (w *Walker) declareStruct(v *ast.StructDecl, ns depm.Namespace) {
	var kind depm.SymbolKind
	sp, up := &depm.StructProperty{}, &depm.UnionProperty{}
	if v.Union {
		kind = up
	} else {
		kind = sp
	}

	if _, ok := w.define(v.Name, kind, ns, false); !ok {
		return
	}

	inner := ns.Push(v.Name.Text)
	for _, m := range v.Members {
		if v.Union {
			if id, ok := w.define(m.Name, &depm.UnionMemberProperty{Type: m.Type}, inner, false); ok {
				up.Members = append(up.Members, id)
			}
		} else if id, ok := w.define(m.Name, &depm.StructMemberProperty{Type: m.Type}, inner, false); ok {
			sp.Members = append(sp.Members, id)
		}
	}
}

func (w *Walker) declareGenerics(params []*ast.GenericParam, ns depm.Namespace) []depm.SymbolID {
	var ids []depm.SymbolID
	for _, gp := range params {
		prop := &depm.GenericParameterProperty{
			Bound:   gp.Bound,
			Type:    gp.Type,
			Proto:   gp.Proto,
			Default: gp.Default,
		}

		if id, ok := w.define(gp.Name, prop, ns, false); ok {
			ids = append(ids, id)
		}
	}

	return ids
}

func (w *Walker) declareParams(params []*ast.ParamDecl, ns depm.Namespace) []depm.SymbolID {
	var ids []depm.SymbolID
	for _, p := range params {
		prop := &depm.ParameterProperty{
			Scope: depm.ParamGlobal,
			Const: p.Const,
			Type:  p.Type,
			Value: p.Value,
		}
		if p.Local || p.Const {
			prop.Scope = depm.ParamLocal
		}

		if id, ok := w.define(p.Name, prop, ns, false); ok {
			ids = append(ids, id)
		}
	}

	return ids
}

func (w *Walker) declarePorts(ports []*ast.PortDecl, ns depm.Namespace) []depm.SymbolID {
	var ids []depm.SymbolID
	for _, p := range ports {
		if id, ok := w.define(p.Name, &depm.PortProperty{Direction: p.Direction, Type: p.Type}, ns, false); ok {
			ids = append(ids, id)
		}
	}

	return ids
}

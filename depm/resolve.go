package depm

import (
	"strings"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// maxIndirection bounds how many typedefs, instances and generic instances a
// single member access may pass through while computing a member scope
const maxIndirection = 32

// Resolve looks up path as written inside ns.
//
// The first segment is searched from ns outward to the root.  At every level,
// generic parameters declared at that level win over other declarations at
// that level, which in turn win over symbols imported into that level.  A
// leading `$` selects the builtin namespace instead.
//
// Every further segment is a member of the previous symbol and must be declared
// exactly in that symbol's member scope (see memberScope).  Nothing is ever
// looked up outward once the first segment has been found.
func (st *SymbolTable) Resolve(path SymbolPath, ns Namespace) (*ResolveResult, error) {
	return st.resolve(path, ns, 0)
}

func (st *SymbolTable) resolve(path SymbolPath, ns Namespace, depth int) (*ResolveResult, error) {
	if len(path) == 0 {
		return nil, &ResolveError{}
	}

	first := path[0]
	var found *Symbol
	if name, ok := builtinName(first); ok {
		found, _ = st.Find(name, st.builtin)
	} else {
		found = st.lookupVisible(first, ns)
	}

	if found == nil {
		return nil, &ResolveError{NotFound: first}
	}

	result := &ResolveResult{Found: found, FullPath: []SymbolID{found.ID}}
	for _, name := range path[1:] {
		scope, ok := st.memberScope(result.Found, depth)
		if !ok {
			return nil, &ResolveError{LastFound: result.Found, NotFound: name}
		}

		if scope.external {
			result.External = true
			return result, nil
		}

		member, ok := st.Find(name, scope.ns)
		if ok && scope.modport != nil && !throughModport(scope.modport, member) {
			ok = false
		}

		if !ok {
			return nil, &ResolveError{LastFound: result.Found, NotFound: name}
		}

		result.Found = member
		result.FullPath = append(result.FullPath, member.ID)
	}

	return result, nil
}

// builtinName strips the leading `$` of a builtin reference
func builtinName(id resource.StrID) (resource.StrID, bool) {
	text := id.String()
	if len(text) > 1 && strings.HasPrefix(text, "$") {
		return resource.InsertStr(text[1:]), true
	}

	return 0, false
}

// lookupVisible finds the first segment of a path by walking from ns outward
func (st *SymbolTable) lookupVisible(name resource.StrID, ns Namespace) *Symbol {
	candidates := st.names[name]

	for depth := ns.Depth(); depth >= 0; depth-- {
		scope := ns.Prefix(depth)

		var direct, imported *Symbol
		for _, id := range candidates {
			sym := st.symbols[id]

			if sym.Namespace.Equal(scope) {
				if _, ok := sym.Kind.(*GenericParameterProperty); ok {
					return sym
				}

				if direct == nil {
					direct = sym
				}
			} else if imported == nil && sym.importedInto(scope) {
				imported = sym
			}
		}

		if direct != nil {
			return direct
		}

		if imported != nil {
			return imported
		}
	}

	return nil
}

// memberScope describes where the members of a symbol live
type memberScope struct {
	ns       Namespace
	external bool

	// modport restricts the visible members when accessing through a modport
	// port
	modport *ModportProperty
}

// memberScope computes the scope in which the segment after sym is looked up.
// It returns false when sym has no members.
func (st *SymbolTable) memberScope(sym *Symbol, depth int) (memberScope, bool) {
	if depth > maxIndirection {
		return memberScope{}, false
	}

	switch k := sym.Kind.(type) {
	case *ModuleProperty, *InterfaceProperty, *PackageProperty,
		*ProtoModuleProperty, *ProtoInterfaceProperty, *ProtoPackageProperty,
		*StructProperty, *UnionProperty, *EnumProperty, *NamespaceKind, *BlockKind:
		return memberScope{ns: sym.InnerNamespace()}, true
	case *SystemVerilogKind:
		return memberScope{external: true}, true
	case *GenericInstanceProperty:
		if base, ok := st.Lookup(k.Base); ok {
			return st.memberScope(base, depth+1)
		}
	case *VariableProperty:
		return st.typeScope(sym, k.Type, depth)
	case *StructMemberProperty:
		return st.typeScope(sym, k.Type, depth)
	case *UnionMemberProperty:
		return st.typeScope(sym, k.Type, depth)
	case *ParameterProperty:
		return st.typeScope(sym, k.Type, depth)
	case *PortProperty:
		if k.Direction == ast.DirModport {
			return st.modportScope(sym, k.Type, depth)
		}
		return st.typeScope(sym, k.Type, depth)
	case *InstanceProperty:
		res, err := st.resolve(PathOf(k.Type), sym.Namespace, depth+1)
		if err != nil {
			return memberScope{}, false
		}

		if res.External {
			return memberScope{external: true}, true
		}

		switch res.Found.Kind.(type) {
		case *ModuleProperty, *InterfaceProperty, *ProtoModuleProperty, *ProtoInterfaceProperty,
			*GenericInstanceProperty, *GenericParameterProperty:
			return st.memberScope(res.Found, depth+1)
		}
	case *GenericParameterProperty:
		if k.Bound == ast.BoundProto && k.Proto != nil {
			res, err := st.resolve(PathOf(k.Proto), sym.Namespace, depth+1)
			if err == nil {
				return st.memberScope(res.Found, depth+1)
			}
		}
	}

	return memberScope{}, false
}

// typeScope is the member scope of a value whose data type is t.  Type aliases
// are followed until a struct, union or interface is reached.
func (st *SymbolTable) typeScope(sym *Symbol, t *ast.TypeExpr, depth int) (memberScope, bool) {
	if !t.IsUserDefined() || depth > maxIndirection {
		return memberScope{}, false
	}

	res, err := st.resolve(PathOf(t.Path), sym.Namespace, depth+1)
	if err != nil {
		return memberScope{}, false
	}

	if res.External {
		return memberScope{external: true}, true
	}

	target := res.Found
	switch k := target.Kind.(type) {
	case *TypeDefProperty:
		return st.typeScope(target, k.Type, depth+1)
	case *StructProperty, *UnionProperty, *InterfaceProperty, *ProtoInterfaceProperty:
		return memberScope{ns: target.InnerNamespace()}, true
	case *ModportProperty:
		return memberScope{ns: target.Namespace, modport: k}, true
	case *GenericInstanceProperty, *GenericParameterProperty:
		return st.memberScope(target, depth+1)
	}

	return memberScope{}, false
}

// modportScope is the member scope of a modport port: the interface's scope,
// restricted to the members the modport lists
func (st *SymbolTable) modportScope(sym *Symbol, t *ast.TypeExpr, depth int) (memberScope, bool) {
	if !t.IsUserDefined() {
		return memberScope{}, false
	}

	res, err := st.resolve(PathOf(t.Path), sym.Namespace, depth+1)
	if err != nil {
		return memberScope{}, false
	}

	switch k := res.Found.Kind.(type) {
	case *ModportProperty:
		return memberScope{ns: res.Found.Namespace, modport: k}, true
	case *InterfaceProperty, *GenericInstanceProperty:
		return st.memberScope(res.Found, depth+1)
	}

	return memberScope{}, false
}

// throughModport reports whether member may be reached through the modport.
// Only listed variables and functions are visible; the interface's own type
// definitions never are.
func throughModport(mp *ModportProperty, member *Symbol) bool {
	if !mp.Lists(member.Name()) {
		return false
	}

	switch member.Kind.(type) {
	case *VariableProperty, *FunctionProperty:
		return true
	}

	return false
}

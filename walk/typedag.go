package walk

import (
	"errors"

	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/typedag"
)

// dagFrame is a pending visit of the DAG construction walk: sym reached as a
// dependency of parent (nil for a root)
type dagFrame struct {
	sym    *depm.Symbol
	parent *depm.Symbol
}

type dagWalker struct {
	table *depm.SymbolTable
	dag   *typedag.TypeDag
	rep   *Reporter

	// visited holds the symbols whose dependencies have been walked
	visited map[depm.SymbolID]struct{}
}

// CreateTypeDag fills dag from the dependencies recorded in table.  Every
// definition is walked depth-first; each dependency becomes an edge from the
// used definition to its user, and each definition is first linked from its
// lexical owner.  Edges that would close a cycle are reported and left out.
func CreateTypeDag(table *depm.SymbolTable, dag *typedag.TypeDag, rep *Reporter) {
	dw := &dagWalker{
		table:   table,
		dag:     dag,
		rep:     rep,
		visited: make(map[depm.SymbolID]struct{}),
	}

	for _, sym := range table.GetAll() {
		if isDagNode(sym) && !isGenericInstance(sym) {
			dw.walk(sym)
		}
	}

	logging.Trace().Sugar().Debugf("type dag built with %d nodes", dag.Len())
}

func (dw *dagWalker) walk(root *depm.Symbol) {
	stack := []dagFrame{{sym: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := dw.own(f.sym)
		if f.parent != nil {
			parent, _ := dw.dag.NodeOf(f.parent.ID)

			// an owner using its own nested definition is already ordered
			if !dw.dag.IsOwned(parent, node) {
				reportCycle(dw.rep, dw.dag.InsertEdge(node, parent, dagContext(f.parent)))
			}
		}

		if _, ok := dw.visited[f.sym.ID]; ok {
			continue
		}
		dw.visited[f.sym.ID] = struct{}{}

		deps := f.sym.Dependencies
		for i := len(deps) - 1; i >= 0; i-- {
			if dep, ok := dw.table.Lookup(deps[i]); ok && isDagNode(dep) && !isGenericInstance(dep) {
				stack = append(stack, dagFrame{sym: dep, parent: f.sym})
			}
		}
	}
}

// own inserts the node of sym after linking every enclosing definition to
// what it contains, outermost first
func (dw *dagWalker) own(sym *depm.Symbol) typedag.NodeIndex {
	if idx, ok := dw.dag.NodeOf(sym.ID); ok {
		return idx
	}

	chain := []*depm.Symbol{sym}
	for owner, ok := dagOwner(dw.table, sym); ok; owner, ok = dagOwner(dw.table, owner) {
		chain = append(chain, owner)
		if _, known := dw.dag.NodeOf(owner.ID); known {
			break
		}
	}

	parent := dw.dag.InsertNode(chain[len(chain)-1])
	for i := len(chain) - 2; i >= 0; i-- {
		child := dw.dag.InsertNode(chain[i])
		reportCycle(dw.rep, dw.dag.InsertOwned(parent, child, dagContext(chain[i+1])))
		parent = child
	}

	return parent
}

func reportCycle(rep *Reporter, err error) {
	var ce *typedag.CyclicError
	if errors.As(err, &ce) {
		rep.Report(logging.NewError(logging.CyclicTypeDependency, ce.End.Token, "%s", ce.Error()))
	}
}

// dagOwner is the nearest enclosing definition of sym that is a DAG node.
// Generate blocks are transparent.
func dagOwner(table *depm.SymbolTable, sym *depm.Symbol) (*depm.Symbol, bool) {
	ns := sym.Namespace
	for {
		owner, ok := ownerOf(table, ns)
		if ok && isDagNode(owner) {
			return owner, true
		}

		parent, _, popped := ns.Pop()
		if !popped {
			return nil, false
		}
		ns = parent
	}
}

// isDagNode reports whether sym takes part in the type DAG
func isDagNode(sym *depm.Symbol) bool {
	return dagContext(sym) != typedag.Irrelevant
}

func isGenericInstance(sym *depm.Symbol) bool {
	_, ok := sym.Kind.(*depm.GenericInstanceProperty)
	return ok
}

// dagContext maps a symbol kind to the context of the edges it introduces
func dagContext(sym *depm.Symbol) typedag.Context {
	switch k := sym.Kind.(type) {
	case *depm.ModuleProperty:
		return typedag.Module
	case *depm.InterfaceProperty:
		return typedag.Interface
	case *depm.PackageProperty:
		return typedag.Package
	case *depm.StructProperty:
		return typedag.Struct
	case *depm.UnionProperty:
		return typedag.Union
	case *depm.EnumProperty:
		return typedag.Enum
	case *depm.TypeDefProperty:
		return typedag.TypeDef
	case *depm.FunctionProperty:
		return typedag.Function
	case *depm.ModportProperty:
		return typedag.Modport
	case *depm.ParameterProperty:
		if k.Const {
			return typedag.Const
		}
	case *depm.GenericInstanceProperty:
		return typedag.GenericInstance
	}

	return typedag.Irrelevant
}

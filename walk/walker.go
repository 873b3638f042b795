package walk

import (
	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/eval"
	"github.com/veryl-lang/veryl-sub003/inst"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
	"go.uber.org/zap"
)

// Walker walks the declarations of a single file.  All walkers of a session
// share the symbol table, instance history and reporter.
type Walker struct {
	table   *depm.SymbolTable
	history *inst.History
	rep     *Reporter
	file    *ast.File
	root    depm.Namespace

	// imports are collected while declaring and applied once every file has
	// been declared
	imports []importRequest

	// quiet is non-zero while re-walking a generic body for elaboration:
	// ordinary resolution errors were already reported by the generic walk
	quiet int
}

// NewWalker creates a walker for file in the project named project
func NewWalker(table *depm.SymbolTable, history *inst.History, rep *Reporter, project resource.StrID, file *ast.File) *Walker {
	return &Walker{
		table:   table,
		history: history,
		rep:     rep,
		file:    file,
		root:    depm.NewNamespace(project),
	}
}

// scope is the walking context of a declaration
type scope struct {
	ns depm.Namespace

	// owner is the nearest enclosing definition that takes part in the type
	// DAG; references found in the declaration become its dependencies
	owner depm.SymbolID

	// bindings hold the generic parameter values of the elaboration in
	// progress
	bindings map[depm.SymbolID]eval.Value
}

func (sc scope) enter(ns depm.Namespace, owner depm.SymbolID) scope {
	if owner == 0 {
		owner = sc.owner
	}

	return scope{ns: ns, owner: owner, bindings: sc.bindings}
}

func (w *Walker) report(d *logging.Diagnostic) {
	if w.quiet > 0 && !elaborationCode(d.Code) {
		return
	}

	w.rep.Report(d)
}

// elaborationCode reports whether a diagnostic depends on generic bindings and
// so must still be reported while elaborating
func elaborationCode(c logging.Code) bool {
	switch c {
	case logging.ExceedDepthLimit, logging.ExceedTotalLimit, logging.InfiniteRecursion,
		logging.MismatchGenericsArity, logging.InvalidGenericArgument:
		return true
	}

	return false
}

// declared returns the symbol inserted for the declaration named by tok.  It
// returns false when the declaration was rejected as a duplicate.
func (w *Walker) declared(tok resource.Token, ns depm.Namespace) (*depm.Symbol, bool) {
	sym, ok := w.table.Find(tok.Text, ns)
	if !ok || sym.Token.ID != tok.ID {
		return nil, false
	}

	return sym, true
}

func (w *Walker) trace() *zap.Logger {
	return logging.Trace().With(zap.String("file", w.file.Path))
}

// ownerOf returns the symbol whose scope is ns
func ownerOf(table *depm.SymbolTable, ns depm.Namespace) (*depm.Symbol, bool) {
	parent, name, ok := ns.Pop()
	if !ok {
		return nil, false
	}

	return table.Find(name, parent)
}

// elseNamespace is the scope of the else branch of a generate-if.  The `#`
// keeps it apart from any user-written label.
func elseNamespace(ns depm.Namespace, label resource.Token) depm.Namespace {
	return ns.Push(resource.InsertStr(label.Text.String() + "#else"))
}

package depm

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// SymbolTable stores every declared symbol of an analysis session.  Symbols are
// indexed by ID and by name; the name index keeps symbols in insertion order so
// that resolution is deterministic.
type SymbolTable struct {
	symbols map[SymbolID]*Symbol
	names   map[resource.StrID][]SymbolID

	// lastID is never reset: IDs stay unique across Clear and Drop
	lastID uint64

	builtin Namespace
}

// NewSymbolTable creates a table seeded with the builtin universe
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.reset()
	return st
}

func (st *SymbolTable) reset() {
	st.symbols = make(map[SymbolID]*Symbol)
	st.names = make(map[resource.StrID][]SymbolID)
	st.builtin = st.insertUniverse()
}

// Insert defines a new symbol named by token in ns.  If the name is already
// taken in ns by a symbol the new one may not coexist with, the table is left
// unchanged and a *DuplicateError naming the existing symbol is returned.
func (st *SymbolTable) Insert(token resource.Token, kind SymbolKind, ns Namespace, public bool) (SymbolID, error) {
	for _, id := range st.names[token.Text] {
		existing := st.symbols[id]
		if existing.Namespace.Equal(ns) && !canCoexist(existing.Kind, kind) {
			return existing.ID, &DuplicateError{Name: token.Text, Existing: existing.ID}
		}
	}

	st.lastID++
	id, err := safecast.Conv[uint32](st.lastID)
	if err != nil {
		panic(fmt.Errorf("symbol id overflow: %w", err))
	}

	sym := &Symbol{
		ID:        SymbolID(id),
		Token:     token,
		Namespace: ns,
		Kind:      kind,
		Public:    public,
	}
	st.symbols[sym.ID] = sym
	st.names[token.Text] = append(st.names[token.Text], sym.ID)

	return sym.ID, nil
}

// canCoexist decides whether two symbols may share a name in one namespace.
// Generic instances are keyed by their mangled name and are shared between all
// uses with equal arguments; prototypes may be bound by an instance of the same
// name.
func canCoexist(existing, incoming SymbolKind) bool {
	_, a := existing.(*GenericInstanceProperty)
	_, b := incoming.(*GenericInstanceProperty)
	return a || b
}

// Get returns the symbol with the given ID.  Asking for an ID the table never
// returned is a programming error.
func (st *SymbolTable) Get(id SymbolID) *Symbol {
	sym, ok := st.symbols[id]
	if !ok {
		panic(fmt.Sprintf("unknown symbol id %d", id))
	}

	return sym
}

// Lookup is the non-panicking form of Get
func (st *SymbolTable) Lookup(id SymbolID) (*Symbol, bool) {
	sym, ok := st.symbols[id]
	return sym, ok
}

// Update applies fn to the stored symbol
func (st *SymbolTable) Update(id SymbolID, fn func(*Symbol)) {
	fn(st.Get(id))
}

// Find returns the symbol named name declared exactly in ns
func (st *SymbolTable) Find(name resource.StrID, ns Namespace) (*Symbol, bool) {
	for _, id := range st.names[name] {
		if sym := st.symbols[id]; sym.Namespace.Equal(ns) {
			return sym, true
		}
	}

	return nil, false
}

// GetAll returns every symbol ordered by ID
func (st *SymbolTable) GetAll() []*Symbol {
	syms := make([]*Symbol, 0, len(st.symbols))
	for _, sym := range st.symbols {
		syms = append(syms, sym)
	}

	sort.Slice(syms, func(i, j int) bool { return syms[i].ID < syms[j].ID })
	return syms
}

// Len is the number of stored symbols (builtins included)
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// AddReference records a use of symbol id at token
func (st *SymbolTable) AddReference(id SymbolID, token resource.Token) {
	sym := st.Get(id)
	sym.References = append(sym.References, token)
}

// AddDependency records that the definition of id uses dep
func (st *SymbolTable) AddDependency(id, dep SymbolID) {
	st.Get(id).addDependency(dep)
}

// AddGenericInstance links an elaborated instance to its generic base
func (st *SymbolTable) AddGenericInstance(base, instance SymbolID) {
	sym := st.Get(base)
	for _, id := range sym.GenericInstances {
		if id == instance {
			return
		}
	}

	sym.GenericInstances = append(sym.GenericInstances, instance)
}

// AddImportedItem makes the symbol id visible inside ns
func (st *SymbolTable) AddImportedItem(id SymbolID, ns Namespace) {
	sym := st.Get(id)
	if !sym.importedInto(ns) {
		sym.Imported = append(sym.Imported, ns)
	}
}

// AddImportedPackage makes every symbol declared directly in pkg visible inside
// ns (a wildcard import)
func (st *SymbolTable) AddImportedPackage(pkg Namespace, ns Namespace) {
	for _, sym := range st.GetAll() {
		if sym.Namespace.Equal(pkg) && !sym.importedInto(ns) {
			sym.Imported = append(sym.Imported, ns)
		}
	}
}

// ResetDerived clears everything the resolution pass computes (imports,
// references, dependencies, elaborated generic instances) so the pass can run
// again over an updated set of declarations
func (st *SymbolTable) ResetDerived() {
	for id, sym := range st.symbols {
		if _, ok := sym.Kind.(*GenericInstanceProperty); ok {
			st.remove(id)
		}
	}

	for _, sym := range st.symbols {
		sym.Imported = nil
		sym.References = nil
		sym.Dependencies = nil
		sym.GenericInstances = nil

		if fp, ok := sym.Kind.(*FunctionProperty); ok {
			fp.constant = nil
		}
	}
}

// Drop removes every symbol defined in path and every reference recorded from
// it.  Generic instances whose base was dropped are dropped as well.
func (st *SymbolTable) Drop(path resource.PathID) {
	dropped := make(map[SymbolID]struct{})
	for id, sym := range st.symbols {
		if sym.Token.Source == path {
			dropped[id] = struct{}{}
		}
	}

	for id, sym := range st.symbols {
		if gi, ok := sym.Kind.(*GenericInstanceProperty); ok {
			if _, ok := dropped[gi.Base]; ok {
				dropped[id] = struct{}{}
			}
		}
	}

	for id := range dropped {
		st.remove(id)
	}

	for _, sym := range st.symbols {
		refs := sym.References[:0]
		for _, ref := range sym.References {
			if ref.Source != path {
				refs = append(refs, ref)
			}
		}
		sym.References = refs

		deps := sym.Dependencies[:0]
		for _, dep := range sym.Dependencies {
			if _, ok := dropped[dep]; !ok {
				deps = append(deps, dep)
			}
		}
		sym.Dependencies = deps
	}
}

// remove deletes a symbol from both indices
func (st *SymbolTable) remove(id SymbolID) {
	sym := st.symbols[id]
	delete(st.symbols, id)

	ids := st.names[sym.Token.Text][:0]
	for _, other := range st.names[sym.Token.Text] {
		if other != id {
			ids = append(ids, other)
		}
	}

	if len(ids) == 0 {
		delete(st.names, sym.Token.Text)
	} else {
		st.names[sym.Token.Text] = ids
	}
}

// Clear drops every symbol and re-seeds the builtin universe
func (st *SymbolTable) Clear() {
	st.reset()
}

// Dump renders the table sorted by name and then ID
func (st *SymbolTable) Dump() string {
	syms := st.GetAll()
	sort.SliceStable(syms, func(i, j int) bool {
		return syms[i].Name().String() < syms[j].Name().String()
	})

	var sb strings.Builder
	sb.WriteString("SymbolTable [\n")
	for _, sym := range syms {
		fmt.Fprintf(&sb, "    %s @ %s {ref: %d, import: %d}: %s,\n",
			sym.Name(), sym.Namespace, len(sym.References), len(sym.Imported), sym.Kind.KindName())
	}
	sb.WriteString("]")

	return sb.String()
}

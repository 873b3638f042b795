package typedag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// NodeIndex identifies a node of the DAG
type NodeIndex uint32

// Node is the DAG's record of a participating symbol
type Node struct {
	Index  NodeIndex
	Symbol depm.SymbolID
	Name   string
	Kind   string
	Token  resource.Token
}

// TypeDag records which definitions depend on which.  An edge start -> end
// means that the definition of end uses start, so a topological order of the
// DAG is an order in which definitions can be processed.  The DAG never
// contains a cycle: an edge that would close one is rejected.
//
// Alongside the symbol graph the DAG keeps a graph of source files, derived
// from the symbol edges, used to find which files must be revisited when one
// changes.
type TypeDag struct {
	nodes   map[depm.SymbolID]NodeIndex
	infos   map[NodeIndex]*Node
	out     map[NodeIndex]map[NodeIndex]Context
	in      map[NodeIndex]map[NodeIndex]struct{}
	owned   map[NodeIndex][]NodeIndex
	source  NodeIndex
	counter uint64

	files   map[resource.PathID]struct{}
	fileOut map[resource.PathID]map[resource.PathID]struct{}
}

// NewTypeDag creates an empty DAG holding only the synthetic source node
func NewTypeDag() *TypeDag {
	dag := &TypeDag{}
	dag.Clear()
	return dag
}

// Clear removes every node and edge
func (dag *TypeDag) Clear() {
	dag.nodes = make(map[depm.SymbolID]NodeIndex)
	dag.infos = make(map[NodeIndex]*Node)
	dag.out = make(map[NodeIndex]map[NodeIndex]Context)
	dag.in = make(map[NodeIndex]map[NodeIndex]struct{})
	dag.owned = make(map[NodeIndex][]NodeIndex)
	dag.files = make(map[resource.PathID]struct{})
	dag.fileOut = make(map[resource.PathID]map[resource.PathID]struct{})
	dag.counter = 0
	dag.source = dag.newIndex()
}

func (dag *TypeDag) newIndex() NodeIndex {
	idx, err := safecast.Conv[uint32](dag.counter)
	if err != nil {
		panic(fmt.Errorf("type dag node overflow: %w", err))
	}

	dag.counter++
	return NodeIndex(idx)
}

// InsertNode returns the node of sym, creating it (linked from the source node)
// on first use
func (dag *TypeDag) InsertNode(sym *depm.Symbol) NodeIndex {
	if idx, ok := dag.nodes[sym.ID]; ok {
		return idx
	}

	idx := dag.newIndex()
	dag.nodes[sym.ID] = idx
	dag.infos[idx] = &Node{
		Index:  idx,
		Symbol: sym.ID,
		Name:   sym.Name().String(),
		Kind:   sym.Kind.KindName(),
		Token:  sym.Token,
	}

	if sym.Token.Source != resource.BuiltinPath {
		dag.files[sym.Token.Source] = struct{}{}
	}

	// a fresh node has no outgoing edges so this can not close a cycle
	dag.addEdge(dag.source, idx, Irrelevant)
	return idx
}

// NodeOf returns the node of a symbol if it has been inserted
func (dag *TypeDag) NodeOf(id depm.SymbolID) (NodeIndex, bool) {
	idx, ok := dag.nodes[id]
	return idx, ok
}

// Node returns the information stored for idx
func (dag *TypeDag) Node(idx NodeIndex) *Node {
	info, ok := dag.infos[idx]
	if !ok {
		panic(fmt.Sprintf("type dag node %d was never inserted", idx))
	}

	return info
}

// InsertEdge adds start -> end.  If end already reaches start the edge would
// close a cycle: the DAG is left untouched and a *CyclicError is returned.  A
// module, interface or function referring to itself is allowed and records
// nothing.
func (dag *TypeDag) InsertEdge(start, end NodeIndex, ctx Context) error {
	if start == end {
		if ctx.allowsDirectRecursion() {
			return nil
		}

		return &CyclicError{Start: dag.Node(start), End: dag.Node(end)}
	}

	if dag.ExistEdge(start, end) {
		return nil
	}

	if dag.reaches(end, start) {
		return &CyclicError{Start: dag.Node(start), End: dag.Node(end)}
	}

	dag.addEdge(start, end, ctx)
	dag.insertFileEdge(start, end)
	return nil
}

func (dag *TypeDag) addEdge(start, end NodeIndex, ctx Context) {
	if dag.out[start] == nil {
		dag.out[start] = make(map[NodeIndex]Context)
	}
	dag.out[start][end] = ctx

	if dag.in[end] == nil {
		dag.in[end] = make(map[NodeIndex]struct{})
	}
	dag.in[end][start] = struct{}{}
}

// reaches reports whether to can be reached from from
func (dag *TypeDag) reaches(from, to NodeIndex) bool {
	visited := map[NodeIndex]struct{}{from: {}}
	stack := []NodeIndex{from}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == to {
			return true
		}

		for next := range dag.out[n] {
			if _, ok := visited[next]; !ok {
				visited[next] = struct{}{}
				stack = append(stack, next)
			}
		}
	}

	return false
}

func (dag *TypeDag) insertFileEdge(start, end NodeIndex) {
	if start == dag.source {
		return
	}

	from, to := dag.Node(start).Token.Source, dag.Node(end).Token.Source
	if from == to || from == resource.BuiltinPath || to == resource.BuiltinPath {
		return
	}

	if dag.fileOut[from] == nil {
		dag.fileOut[from] = make(map[resource.PathID]struct{})
	}
	dag.fileOut[from][to] = struct{}{}
}

// ExistEdge reports whether start -> end is in the DAG
func (dag *TypeDag) ExistEdge(start, end NodeIndex) bool {
	_, ok := dag.out[start][end]
	return ok
}

// RemoveEdge deletes start -> end if present
func (dag *TypeDag) RemoveEdge(start, end NodeIndex) {
	delete(dag.out[start], end)
	delete(dag.in[end], start)
}

// InsertOwned records that child is declared inside parent.  A reference edge
// child -> parent recorded earlier is removed first so that containment always
// points from the owner to the owned definition.
func (dag *TypeDag) InsertOwned(parent, child NodeIndex, ctx Context) error {
	if dag.ExistEdge(child, parent) {
		dag.RemoveEdge(child, parent)
	}

	if !dag.IsOwned(parent, child) {
		dag.owned[parent] = append(dag.owned[parent], child)
	}

	return dag.InsertEdge(parent, child, ctx)
}

// IsOwned reports whether child was recorded as declared inside parent
func (dag *TypeDag) IsOwned(parent, child NodeIndex) bool {
	for _, c := range dag.owned[parent] {
		if c == child {
			return true
		}
	}

	return false
}

// Len is the number of symbol nodes
func (dag *TypeDag) Len() int {
	return len(dag.infos)
}

func (dag *TypeDag) sortedNodes() []NodeIndex {
	idxs := make([]NodeIndex, 0, len(dag.infos))
	for idx := range dag.infos {
		idxs = append(idxs, idx)
	}

	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	return idxs
}

func sortedKeys(m map[NodeIndex]struct{}) []NodeIndex {
	keys := make([]NodeIndex, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// parents are the nodes with an edge into idx, excluding the source
func (dag *TypeDag) parents(idx NodeIndex) []NodeIndex {
	var ps []NodeIndex
	for _, p := range sortedKeys(dag.in[idx]) {
		if p != dag.source {
			ps = append(ps, p)
		}
	}

	return ps
}

package typedag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veryl-lang/veryl-sub003/resource"
)

// Toposort returns every node so that each definition comes after everything
// it depends on.  Ties are broken by insertion order.
func (dag *TypeDag) Toposort() []*Node {
	indegree := make(map[NodeIndex]int, len(dag.infos)+1)
	for _, targets := range dag.out {
		for t := range targets {
			indegree[t]++
		}
	}

	ready := []NodeIndex{dag.source}
	var order []*Node

	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]

		if info, ok := dag.infos[n]; ok {
			order = append(order, info)
		}

		targets := make([]NodeIndex, 0, len(dag.out[n]))
		for t := range dag.out[n] {
			targets = append(targets, t)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

		for _, t := range targets {
			indegree[t]--
			if indegree[t] == 0 {
				ready = insertSorted(ready, t)
			}
		}
	}

	return order
}

func insertSorted(s []NodeIndex, v NodeIndex) []NodeIndex {
	i := sort.Search(len(s), func(i int) bool { return s[i] > v })
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// ConnectedComponents returns, for every node, the node followed by everything
// it transitively depends on
func (dag *TypeDag) ConnectedComponents() [][]*Node {
	var comps [][]*Node

	for _, root := range dag.sortedNodes() {
		visited := map[NodeIndex]struct{}{root: {}}
		stack := []NodeIndex{root}
		var comp []*Node

		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, dag.infos[n])

			ps := dag.parents(n)
			for i := len(ps) - 1; i >= 0; i-- {
				if _, ok := visited[ps[i]]; !ok {
					visited[ps[i]] = struct{}{}
					stack = append(stack, ps[i])
				}
			}
		}

		comps = append(comps, comp)
	}

	return comps
}

// DependentFiles maps each source file to every file whose definitions depend,
// directly or not, on definitions in it.  Files nothing depends on are omitted.
func (dag *TypeDag) DependentFiles() map[resource.PathID][]resource.PathID {
	deps := make(map[resource.PathID][]resource.PathID)

	for file := range dag.files {
		visited := map[resource.PathID]struct{}{file: {}}
		stack := []resource.PathID{file}
		var found []resource.PathID

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for next := range dag.fileOut[f] {
				if _, ok := visited[next]; !ok {
					visited[next] = struct{}{}
					found = append(found, next)
					stack = append(stack, next)
				}
			}
		}

		if len(found) > 0 {
			sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
			deps[file] = found
		}
	}

	return deps
}

// Dump renders every node sorted by name, each followed by the nodes it
// depends on
func (dag *TypeDag) Dump() string {
	idxs := dag.sortedNodes()
	sort.SliceStable(idxs, func(i, j int) bool {
		return dag.infos[idxs[i]].Name < dag.infos[idxs[j]].Name
	})

	width := 0
	for _, idx := range idxs {
		if w := len(dag.infos[idx].Name); w > width {
			width = w
		}

		for _, p := range dag.parents(idx) {
			if w := len(dag.infos[p].Name) + 4; w > width {
				width = w
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("TypeDag [\n")
	for _, idx := range idxs {
		info := dag.infos[idx]
		fmt.Fprintf(&sb, "    %s%s : %s\n", info.Name, strings.Repeat(" ", width-len(info.Name)), info.Kind)

		for _, p := range dag.parents(idx) {
			parent := dag.infos[p]
			fmt.Fprintf(&sb, "     |- %s%s : %s\n", parent.Name, strings.Repeat(" ", width-len(parent.Name)-4), parent.Kind)
		}
	}
	sb.WriteString("]")

	return sb.String()
}

// DumpFiles renders the file graph: each file followed by the files it
// depends on
func (dag *TypeDag) DumpFiles() string {
	files := make([]resource.PathID, 0, len(dag.files))
	for f := range dag.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].String() < files[j].String() })

	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "%s\n", f)
		for _, g := range files {
			if _, ok := dag.fileOut[g][f]; ok {
				fmt.Fprintf(&sb, " |- %s\n", g)
			}
		}
	}

	return sb.String()
}

package typedag

import "fmt"

// CyclicError is returned when an edge would close a dependency cycle.  The
// edge is not inserted.
type CyclicError struct {
	Start, End *Node
}

func (ce *CyclicError) Error() string {
	if ce.Start.Symbol == ce.End.Symbol {
		return fmt.Sprintf("`%s` refers to itself", ce.Start.Name)
	}

	return fmt.Sprintf("`%s` and `%s` depend on each other", ce.Start.Name, ce.End.Name)
}

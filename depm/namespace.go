package depm

import (
	"strconv"
	"strings"

	"github.com/veryl-lang/veryl-sub003/resource"
)

// Namespace is the ordered path of scopes enclosing a symbol: project, module,
// nested block and so on.  Namespaces are values; Push and Pop return new
// namespaces and never modify the receiver.
type Namespace struct {
	paths []resource.StrID
}

// NewNamespace builds a namespace from its segments
func NewNamespace(paths ...resource.StrID) Namespace {
	return Namespace{paths: append([]resource.StrID(nil), paths...)}
}

// Depth is the number of segments in the namespace
func (ns Namespace) Depth() int {
	return len(ns.paths)
}

// Paths returns a copy of the namespace segments
func (ns Namespace) Paths() []resource.StrID {
	return append([]resource.StrID(nil), ns.paths...)
}

// Push returns the namespace extended by one inner scope
func (ns Namespace) Push(name resource.StrID) Namespace {
	paths := make([]resource.StrID, len(ns.paths), len(ns.paths)+1)
	copy(paths, ns.paths)
	return Namespace{paths: append(paths, name)}
}

// Pop returns the enclosing namespace and the removed segment
func (ns Namespace) Pop() (Namespace, resource.StrID, bool) {
	if len(ns.paths) == 0 {
		return ns, 0, false
	}

	last := ns.paths[len(ns.paths)-1]
	return NewNamespace(ns.paths[:len(ns.paths)-1]...), last, true
}

// Prefix returns the first n segments of the namespace
func (ns Namespace) Prefix(n int) Namespace {
	if n > len(ns.paths) {
		n = len(ns.paths)
	}

	return NewNamespace(ns.paths[:n]...)
}

// Equal reports whether both namespaces have identical segments
func (ns Namespace) Equal(other Namespace) bool {
	if len(ns.paths) != len(other.paths) {
		return false
	}

	for i, p := range ns.paths {
		if other.paths[i] != p {
			return false
		}
	}

	return true
}

// Included reports whether x is a prefix of (or equal to) the receiver: that
// is, whether the receiver lies inside scope x.
func (ns Namespace) Included(x Namespace) bool {
	if len(x.paths) > len(ns.paths) {
		return false
	}

	for i, p := range x.paths {
		if ns.paths[i] != p {
			return false
		}
	}

	return true
}

// Matched reports whether x names exactly the same scope as the receiver
func (ns Namespace) Matched(x Namespace) bool {
	return ns.Equal(x)
}

// Key returns a string usable as a map key for the namespace
func (ns Namespace) Key() string {
	var sb strings.Builder
	for i, p := range ns.paths {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(strconv.FormatUint(uint64(p), 10))
	}

	return sb.String()
}

func (ns Namespace) String() string {
	segs := make([]string, len(ns.paths))
	for i, p := range ns.paths {
		segs[i] = p.String()
	}

	return strings.Join(segs, "::")
}

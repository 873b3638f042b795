package resource

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// StrID is the interned form of an identifier or literal text
type StrID uint32

// PathID is the interned form of a source file path.  PathID(0) is reserved for
// symbols that have no source (builtins).
type PathID uint32

// TokenID identifies a single token occurrence
type TokenID uint32

// BuiltinPath is the source of every builtin symbol
const BuiltinPath PathID = 0

// interner is the process-wide table backing every StrID and PathID.  It is the
// only piece of shared state in the analyzer and so is guarded by a mutex.
type interner struct {
	m sync.Mutex

	strIDs map[string]StrID
	strs   []string

	pathIDs map[string]PathID
	paths   []string

	nextToken TokenID
}

var table = newInterner()

func newInterner() *interner {
	return &interner{
		strIDs:  map[string]StrID{"": 0},
		strs:    []string{""},
		pathIDs: map[string]PathID{"<builtin>": BuiltinPath},
		paths:   []string{"<builtin>"},
	}
}

// InsertStr interns a string, returning the same StrID for equal strings
func InsertStr(s string) StrID {
	table.m.Lock()
	defer table.m.Unlock()

	if id, ok := table.strIDs[s]; ok {
		return id
	}

	id := StrID(nextIndex(len(table.strs)))
	table.strIDs[s] = id
	table.strs = append(table.strs, s)
	return id
}

// GetStr looks up an already interned string without inserting it
func GetStr(s string) (StrID, bool) {
	table.m.Lock()
	defer table.m.Unlock()

	id, ok := table.strIDs[s]
	return id, ok
}

func (id StrID) String() string {
	table.m.Lock()
	defer table.m.Unlock()

	if int(id) >= len(table.strs) {
		panic(fmt.Sprintf("unknown string id %d", id))
	}

	return table.strs[id]
}

// InsertPath interns a source path
func InsertPath(p string) PathID {
	table.m.Lock()
	defer table.m.Unlock()

	if id, ok := table.pathIDs[p]; ok {
		return id
	}

	id := PathID(nextIndex(len(table.paths)))
	table.pathIDs[p] = id
	table.paths = append(table.paths, p)
	return id
}

func (id PathID) String() string {
	table.m.Lock()
	defer table.m.Unlock()

	if int(id) >= len(table.paths) {
		panic(fmt.Sprintf("unknown path id %d", id))
	}

	return table.paths[id]
}

// NewTokenID hands out a fresh token id
func NewTokenID() TokenID {
	table.m.Lock()
	defer table.m.Unlock()

	table.nextToken++
	return table.nextToken
}

func nextIndex(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("intern table overflow: %w", err))
	}

	return v
}

package depm

import (
	"fmt"
	"strings"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// SymbolPath is a sequence of names to be resolved (`a::b::c`)
type SymbolPath []resource.StrID

// PathOf converts a scoped identifier into the path resolution works on
func PathOf(si *ast.ScopedIdentifier) SymbolPath {
	return SymbolPath(si.Names())
}

func (p SymbolPath) String() string {
	segs := make([]string, len(p))
	for i, s := range p {
		segs[i] = s.String()
	}

	return strings.Join(segs, "::")
}

// SymbolPathNamespace pairs a path with the namespace it is written in
type SymbolPathNamespace struct {
	Path      SymbolPath
	Namespace Namespace
}

// ResolveResult is a successful resolution.  FullPath holds the symbol found
// for every segment that could be checked; when External is set the remaining
// segments lie below a SystemVerilog scope and were not checked.
type ResolveResult struct {
	Found    *Symbol
	FullPath []SymbolID
	External bool
}

// ResolveError reports the segment that could not be found together with the
// last symbol that was
type ResolveError struct {
	LastFound *Symbol
	NotFound  resource.StrID
}

func (re *ResolveError) Error() string {
	if re.LastFound != nil {
		return fmt.Sprintf("`%s` is not found in `%s`", re.NotFound, re.LastFound.Name())
	}

	return fmt.Sprintf("`%s` is not found", re.NotFound)
}

// DuplicateError is returned when inserting a symbol whose name is already
// taken in the same namespace
type DuplicateError struct {
	Name     resource.StrID
	Existing SymbolID
}

func (de *DuplicateError) Error() string {
	return fmt.Sprintf("`%s` is already defined", de.Name)
}

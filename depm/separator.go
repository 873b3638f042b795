package depm

import "github.com/veryl-lang/veryl-sub003/ast"

// CheckSeparators compares the separators written between the segments of a
// resolved path with the ones the resolved symbols call for.  A separator
// following a value (variable, port, instance, member or a parameter of a user
// defined type) must be `.`; every other separator must be `::`.  The indices
// of the wrong separators are returned.  Segments below an external scope are
// not checked.
func (st *SymbolTable) CheckSeparators(result *ResolveResult, seps []ast.Separator) []int {
	var wrong []int
	for i, sep := range seps {
		if i+1 >= len(result.FullPath) {
			break
		}

		want := ast.SepScope
		if st.Get(result.FullPath[i]).IsValue() {
			want = ast.SepDot
		}

		if sep != want {
			wrong = append(wrong, i)
		}
	}

	return wrong
}

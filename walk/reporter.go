package walk

import (
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
)

type reportKey struct {
	code  logging.Code
	token resource.TokenID
	msg   string
}

// Reporter collects the diagnostics of an analysis.  The same problem found
// at the same token more than once (for example in several elaborations of
// one generic) is kept once.
type Reporter struct {
	diags []*logging.Diagnostic
	seen  map[reportKey]struct{}
}

// NewReporter creates an empty reporter
func NewReporter() *Reporter {
	return &Reporter{seen: make(map[reportKey]struct{})}
}

// Report records d
func (r *Reporter) Report(d *logging.Diagnostic) {
	key := reportKey{code: d.Code, token: d.Token.ID, msg: d.Message}
	if _, ok := r.seen[key]; ok {
		return
	}

	r.seen[key] = struct{}{}
	r.diags = append(r.diags, d)
}

// Diagnostics returns every recorded diagnostic in report order
func (r *Reporter) Diagnostics() []*logging.Diagnostic {
	return r.diags
}

// Clear forgets every diagnostic
func (r *Reporter) Clear() {
	r.diags = nil
	r.seen = make(map[reportKey]struct{})
}

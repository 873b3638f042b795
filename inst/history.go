package inst

import (
	"errors"
	"fmt"

	"github.com/veryl-lang/veryl-sub003/common"
)

var (
	// ErrExceedDepthLimit is returned when the active elaboration chain is too
	// deep
	ErrExceedDepthLimit = errors.New("generic elaboration exceeds the depth limit")

	// ErrExceedTotalLimit is returned when too many distinct elaborations have
	// been recorded
	ErrExceedTotalLimit = errors.New("generic elaboration exceeds the total limit")

	// ErrInfiniteRecursion is returned when a fully concrete signature is
	// elaborated again inside its own elaboration
	ErrInfiniteRecursion = errors.New("infinite recursion in generic elaboration")
)

type memo struct {
	sig    Signature
	result interface{}
}

// History guards generic elaboration.  It tracks the chain of elaborations
// currently in progress (hierarchy) and every signature ever elaborated (full),
// together with the result each elaboration produced.
type History struct {
	DepthLimit int
	TotalLimit int

	hierarchy []Signature
	full      map[string]*memo
}

// NewHistory creates a history with the default limits
func NewHistory() *History {
	return &History{
		DepthLimit: common.DefaultInstanceDepthLimit,
		TotalLimit: common.DefaultInstanceTotalLimit,
		full:       make(map[string]*memo),
	}
}

// Push enters the elaboration of sig.  It returns true when sig has never been
// elaborated and false when a memoized result exists.  On success the caller
// must call Pop once the elaboration is done.
//
// Checks are made in order: the depth limit, the total limit (new signatures
// only), then recursion.  Re-entering a signature that is already on the active
// chain is only an error when every parameter is concrete; a signature with
// unknown values may still shrink to a base case once they are known.
func (h *History) Push(sig Signature) (bool, error) {
	sig = normalized(sig)
	key := sig.String()

	if len(h.hierarchy) >= h.DepthLimit {
		return false, fmt.Errorf("%w: %d", ErrExceedDepthLimit, len(h.hierarchy))
	}

	_, known := h.full[key]
	if !known && len(h.full) >= h.TotalLimit {
		return false, fmt.Errorf("%w: %d", ErrExceedTotalLimit, len(h.full))
	}

	if sig.allConcrete() {
		for _, active := range h.hierarchy {
			if active.String() == key {
				return false, fmt.Errorf("%w: %s", ErrInfiniteRecursion, key)
			}
		}
	}

	h.hierarchy = append(h.hierarchy, sig)
	if known {
		return false, nil
	}

	h.full[key] = &memo{sig: sig}
	return true, nil
}

// Pop leaves the innermost elaboration
func (h *History) Pop() {
	if len(h.hierarchy) > 0 {
		h.hierarchy = h.hierarchy[:len(h.hierarchy)-1]
	}
}

// Current is the innermost elaboration in progress
func (h *History) Current() (Signature, bool) {
	if len(h.hierarchy) == 0 {
		return Signature{}, false
	}

	return h.hierarchy[len(h.hierarchy)-1], true
}

// Depth is the length of the active chain
func (h *History) Depth() int {
	return len(h.hierarchy)
}

// Total is the number of distinct signatures elaborated
func (h *History) Total() int {
	return len(h.full)
}

// Get returns the result stored for sig
func (h *History) Get(sig Signature) (interface{}, bool) {
	m, ok := h.full[normalized(sig).String()]
	if !ok || m.result == nil {
		return nil, false
	}

	return m.result, true
}

// Set stores the result of elaborating sig
func (h *History) Set(sig Signature, result interface{}) {
	sig = normalized(sig)
	key := sig.String()
	if m, ok := h.full[key]; ok {
		m.result = result
	} else {
		h.full[key] = &memo{sig: sig, result: result}
	}
}

// Clear forgets every elaboration; the limits are kept
func (h *History) Clear() {
	h.hierarchy = nil
	h.full = make(map[string]*memo)
}

func normalized(sig Signature) Signature {
	sig.Params = append([]Param(nil), sig.Params...)
	sig.normalize()
	return sig
}

package inst

import (
	"sort"
	"strconv"
	"strings"

	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/eval"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// Param is one bound generic parameter of a signature
type Param struct {
	Name  resource.StrID
	Value eval.Value
}

// Signature identifies one elaboration of a generic symbol: the symbol plus the
// values bound to its parameters.  Two signatures are equal when they name the
// same symbol with the same (name, value) pairs in any order.
type Signature struct {
	Symbol depm.SymbolID
	Params []Param
}

// NewSignature starts a signature for symbol with no parameters
func NewSignature(symbol depm.SymbolID) *Signature {
	return &Signature{Symbol: symbol}
}

// AddParam binds name to value
func (s *Signature) AddParam(name resource.StrID, value eval.Value) {
	s.Params = append(s.Params, Param{Name: name, Value: value})
}

// normalize sorts the parameters by name so that argument order does not
// affect equality
func (s *Signature) normalize() {
	sort.SliceStable(s.Params, func(i, j int) bool {
		return s.Params[i].Name.String() < s.Params[j].Name.String()
	})
}

// allConcrete reports whether every bound value is a known constant
func (s *Signature) allConcrete() bool {
	for _, p := range s.Params {
		if !p.Value.IsConcrete() {
			return false
		}
	}

	return true
}

func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(s.Symbol), 10))
	sb.WriteString("#(")
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name.String())
		sb.WriteString(": ")
		sb.WriteString(p.Value.String())
	}
	sb.WriteString(")")

	return sb.String()
}

package depm

import (
	"github.com/veryl-lang/veryl-sub003/resource"
)

// SymbolID uniquely identifies a symbol for the lifetime of the process.  IDs
// are handed out monotonically and are never reused.
type SymbolID uint32

// Symbol is a single named entity in the symbol table
type Symbol struct {
	ID SymbolID

	// Token is the defining occurrence of the symbol's name
	Token resource.Token

	// Namespace is the scope containing the symbol (not the scope it opens)
	Namespace Namespace

	Kind   SymbolKind
	Public bool

	// Imported lists every scope the symbol has been imported into
	Imported []Namespace

	// References are the tokens that resolved to this symbol
	References []resource.Token

	// Dependencies are the DAG-relevant symbols this symbol's definition uses
	Dependencies []SymbolID

	// GenericInstances are the elaborated instances of a generic symbol
	GenericInstances []SymbolID
}

// Name is the interned name of the symbol
func (s *Symbol) Name() resource.StrID {
	return s.Token.Text
}

// InnerNamespace is the scope opened by the symbol (its namespace extended by
// its own name)
func (s *Symbol) InnerNamespace() Namespace {
	return s.Namespace.Push(s.Token.Text)
}

// importedInto reports whether the symbol is visible in ns through an import
func (s *Symbol) importedInto(ns Namespace) bool {
	for _, imp := range s.Imported {
		if imp.Equal(ns) {
			return true
		}
	}

	return false
}

// addDependency records dep once
func (s *Symbol) addDependency(dep SymbolID) {
	for _, d := range s.Dependencies {
		if d == dep {
			return
		}
	}

	s.Dependencies = append(s.Dependencies, dep)
}

// IsValue reports whether the symbol denotes a runtime value or a hierarchy
// level (accessed with `.`) rather than a scope (accessed with `::`).
func (s *Symbol) IsValue() bool {
	switch k := s.Kind.(type) {
	case *VariableProperty, *PortProperty, *InstanceProperty, *StructMemberProperty, *UnionMemberProperty, *BlockKind:
		return true
	case *ParameterProperty:
		return k.Type.IsUserDefined()
	}

	return false
}

package ast

import "github.com/veryl-lang/veryl-sub003/resource"

// Node is implemented by every element of the syntax tree
type Node interface {
	// Pos returns the token the element is reported at
	Pos() resource.Token
}

// File is a single parsed source file
type File struct {
	Path  string
	Decls []Decl
}

// Separator is the punctuation written between two segments of a
// ScopedIdentifier
type Separator int

const (
	SepScope Separator = iota // `::`
	SepDot                    // `.`
)

func (s Separator) String() string {
	if s == SepDot {
		return "."
	}

	return "::"
}

// PathSegment is one name in a ScopedIdentifier together with any generic
// arguments written after it (`Fifo::<4>`)
type PathSegment struct {
	Ident resource.Token
	Args  []Expr
}

// ScopedIdentifier is a possibly-qualified reference such as `pkg::T`,
// `inst.port` or `$sv::pkg::X`.  `Separators[i]` sits between `Segments[i]` and
// `Segments[i+1]`.  Builtin names keep their leading `$` in the segment text.
type ScopedIdentifier struct {
	Segments   []*PathSegment
	Separators []Separator
}

func (si *ScopedIdentifier) Pos() resource.Token {
	return si.Segments[0].Ident
}

// Names returns the interned text of every segment
func (si *ScopedIdentifier) Names() []resource.StrID {
	names := make([]resource.StrID, len(si.Segments))
	for i, seg := range si.Segments {
		names[i] = seg.Ident.Text
	}

	return names
}

// Last returns the final segment of the identifier
func (si *ScopedIdentifier) Last() *PathSegment {
	return si.Segments[len(si.Segments)-1]
}

// HasGenericArgs reports whether any segment carries generic arguments
func (si *ScopedIdentifier) HasGenericArgs() bool {
	for _, seg := range si.Segments {
		if len(seg.Args) > 0 {
			return true
		}
	}

	return false
}

func (si *ScopedIdentifier) String() string {
	s := ""
	for i, seg := range si.Segments {
		if i > 0 {
			s += si.Separators[i-1].String()
		}

		s += seg.Ident.Text.String()
		if len(seg.Args) > 0 {
			s += "::<...>"
		}
	}

	return s
}

// TypeExpr is a written data type.  Exactly one of Builtin and Path is set.
type TypeExpr struct {
	Builtin string
	Tok     resource.Token
	Path    *ScopedIdentifier
	Width   []Expr
	Array   []Expr
}

func (t *TypeExpr) Pos() resource.Token {
	if t.Path != nil {
		return t.Path.Pos()
	}

	return t.Tok
}

// IsUserDefined reports whether the type names a declared entity
func (t *TypeExpr) IsUserDefined() bool {
	return t != nil && t.Path != nil
}

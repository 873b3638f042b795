package ast

import (
	"strconv"
	"strings"

	"github.com/veryl-lang/veryl-sub003/resource"
)

// Builder creates syntax tree elements for a single source file.  Each call
// that produces tokens places them on a fresh line so every occurrence has a
// distinct position.
type Builder struct {
	path   string
	source resource.PathID
	line   int
}

// NewBuilder returns a builder for tokens located in the file at path
func NewBuilder(path string) *Builder {
	return &Builder{path: path, source: resource.InsertPath(path)}
}

// Source is the interned path of the builder's file
func (b *Builder) Source() resource.PathID {
	return b.source
}

// File wraps declarations into a file rooted at the builder's path
func (b *Builder) File(decls ...Decl) *File {
	return &File{Path: b.path, Decls: decls}
}

// Tok creates a token holding text
func (b *Builder) Tok(text string) resource.Token {
	b.line++
	return resource.NewToken(text, b.line, 1, b.source)
}

// Path splits text such as `$sv::pkg::X` or `inst.port.field` into a
// ScopedIdentifier.  Any args become the generic arguments of the last
// segment.
func (b *Builder) Path(text string, args ...Expr) *ScopedIdentifier {
	b.line++
	si := &ScopedIdentifier{}

	col := 1
	start := 0
	push := func(end int) {
		name := text[start:end]
		si.Segments = append(si.Segments, &PathSegment{
			Ident: resource.NewToken(name, b.line, col+start, b.source),
		})
	}

	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "::"):
			push(i)
			si.Separators = append(si.Separators, SepScope)
			i += 2
			start = i
		case text[i] == '.':
			push(i)
			si.Separators = append(si.Separators, SepDot)
			i++
			start = i
		default:
			i++
		}
	}
	push(len(text))

	si.Last().Args = args
	return si
}

// Num creates an integer literal
func (b *Builder) Num(v int64) *Number {
	return &Number{Tok: b.Tok(strconv.FormatInt(v, 10)), Value: v}
}

// Ref creates a reference expression to the entity named by path
func (b *Builder) Ref(path string, args ...Expr) *Ident {
	return &Ident{Path: b.Path(path, args...)}
}

// Bin creates a binary expression
func (b *Builder) Bin(op string, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Call creates a call expression
func (b *Builder) Call(fn string, args ...Expr) *Call {
	return &Call{Func: b.Path(fn), Args: args}
}

// Builtin creates a builtin data type such as `logic` or `u32`
func (b *Builder) Builtin(name string, width ...Expr) *TypeExpr {
	return &TypeExpr{Builtin: name, Tok: b.Tok(name), Width: width}
}

// Type creates a user-defined data type referring to path
func (b *Builder) Type(path string, args ...Expr) *TypeExpr {
	return &TypeExpr{Path: b.Path(path, args...)}
}

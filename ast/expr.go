package ast

import "github.com/veryl-lang/veryl-sub003/resource"

// Expr is any expression node
type Expr interface {
	Node
	exprNode()
}

// Number is an integer literal
type Number struct {
	Tok   resource.Token
	Value int64
}

// Ident is a reference to a named entity
type Ident struct {
	Path *ScopedIdentifier
}

// Binary is an infix operation.  Op is the operator text (`+`, `<<`, `==`,
// ...).
type Binary struct {
	Op          string
	Left, Right Expr
}

// Unary is a prefix operation
type Unary struct {
	Op      string
	Operand Expr
}

// Call is a function call (user function or system function)
type Call struct {
	Func *ScopedIdentifier
	Args []Expr
}

func (n *Number) Pos() resource.Token { return n.Tok }
func (i *Ident) Pos() resource.Token  { return i.Path.Pos() }
func (b *Binary) Pos() resource.Token { return b.Left.Pos() }
func (u *Unary) Pos() resource.Token  { return u.Operand.Pos() }
func (c *Call) Pos() resource.Token   { return c.Func.Pos() }

func (*Number) exprNode() {}
func (*Ident) exprNode()  {}
func (*Binary) exprNode() {}
func (*Unary) exprNode()  {}
func (*Call) exprNode()   {}

// Identifiers collects every scoped identifier used in e, including those in
// generic arguments, in source order
func Identifiers(e Expr) []*ScopedIdentifier {
	var ids []*ScopedIdentifier
	collectIdentifiers(e, &ids)
	return ids
}

func collectIdentifiers(e Expr, ids *[]*ScopedIdentifier) {
	switch v := e.(type) {
	case *Ident:
		*ids = append(*ids, v.Path)
		collectArgs(v.Path, ids)
	case *Binary:
		collectIdentifiers(v.Left, ids)
		collectIdentifiers(v.Right, ids)
	case *Unary:
		collectIdentifiers(v.Operand, ids)
	case *Call:
		*ids = append(*ids, v.Func)
		collectArgs(v.Func, ids)
		for _, arg := range v.Args {
			collectIdentifiers(arg, ids)
		}
	}
}

func collectArgs(si *ScopedIdentifier, ids *[]*ScopedIdentifier) {
	for _, seg := range si.Segments {
		for _, arg := range seg.Args {
			collectIdentifiers(arg, ids)
		}
	}
}

package ast

import "github.com/veryl-lang/veryl-sub003/resource"

// Decl is any declaration that introduces a name (or, for imports and
// assignments, uses names inside a scope)
type Decl interface {
	Node
	declNode()
}

// Direction of a port or modport item
type Direction int

const (
	DirInput Direction = iota
	DirOutput
	DirInout
	DirRef
	DirModport
	DirImport
)

// BoundKind enumerates the bounds a generic parameter may carry
type BoundKind int

const (
	BoundType  BoundKind = iota // `type`
	BoundConst                  // a value of type `Type`
	BoundProto                  // an instance of the proto named by `Proto`
)

// GenericParam is one entry of a generic parameter list
type GenericParam struct {
	Name    resource.Token
	Bound   BoundKind
	Type    *TypeExpr
	Proto   *ScopedIdentifier
	Default Expr
}

// ModuleDecl is a module definition
type ModuleDecl struct {
	Name          resource.Token
	Public        bool
	GenericParams []*GenericParam
	Params        []*ParamDecl
	Ports         []*PortDecl
	Implements    *ScopedIdentifier
	Body          []Decl
}

// InterfaceDecl is an interface definition
type InterfaceDecl struct {
	Name          resource.Token
	Public        bool
	GenericParams []*GenericParam
	Params        []*ParamDecl
	Body          []Decl
}

// PackageDecl is a package definition
type PackageDecl struct {
	Name          resource.Token
	Public        bool
	GenericParams []*GenericParam
	Body          []Decl
}

// ProtoModuleDecl declares the parameter and port shape a module must have
type ProtoModuleDecl struct {
	Name   resource.Token
	Public bool
	Params []*ParamDecl
	Ports  []*PortDecl
}

// ProtoInterfaceDecl declares the shape of an interface
type ProtoInterfaceDecl struct {
	Name   resource.Token
	Public bool
	Params []*ParamDecl
	Body   []Decl
}

// ProtoPackageDecl declares the shape of a package
type ProtoPackageDecl struct {
	Name   resource.Token
	Public bool
	Body   []Decl
}

// ParamDecl is a `param`, `local` or `const` declaration.  Header parameters
// are global (overridable by instances); body declarations are local.
type ParamDecl struct {
	Name  resource.Token
	Local bool
	Const bool
	Type  *TypeExpr
	Value Expr
}

// PortDecl is a module, function or proto port
type PortDecl struct {
	Name      resource.Token
	Direction Direction
	Type      *TypeExpr
}

// VarDecl is a variable declaration
type VarDecl struct {
	Name resource.Token
	Type *TypeExpr
}

// MemberDecl is a struct or union member
type MemberDecl struct {
	Name resource.Token
	Type *TypeExpr
}

// StructDecl is a struct or (when Union is set) union definition
type StructDecl struct {
	Name    resource.Token
	Union   bool
	Members []*MemberDecl
}

// EnumMemberDecl is a single enum variant
type EnumMemberDecl struct {
	Name  resource.Token
	Value Expr
}

// EnumDecl is an enum definition with an optional base type
type EnumDecl struct {
	Name    resource.Token
	Type    *TypeExpr
	Members []*EnumMemberDecl
}

// TypeDefDecl is a `type X = ...` alias
type TypeDefDecl struct {
	Name resource.Token
	Type *TypeExpr
}

// ModportItem names an interface member visible through a modport
type ModportItem struct {
	Name      resource.Token
	Direction Direction
}

// ModportDecl is a modport of an interface
type ModportDecl struct {
	Name  resource.Token
	Items []*ModportItem
}

// InstParam is a `name: value` parameter override of an instance
type InstParam struct {
	Name  resource.Token
	Value Expr
}

// InstPort is a `name: expr` port connection of an instance
type InstPort struct {
	Name resource.Token
	Expr Expr
}

// InstDecl instantiates a module or interface
type InstDecl struct {
	Name   resource.Token
	Type   *ScopedIdentifier
	Params []*InstParam
	Ports  []*InstPort
}

// FunctionDecl is a function definition.  Body holds the expressions the body
// evaluates; statements are not modeled beyond the names they use.
type FunctionDecl struct {
	Name   resource.Token
	Public bool
	Ports  []*PortDecl
	Return *TypeExpr
	Body   []Expr
}

// ImportDecl is `import pkg::item;` or `import pkg::*;`
type ImportDecl struct {
	Path     *ScopedIdentifier
	Wildcard bool
}

// AssignDecl is a continuous assignment; it only contributes references
type AssignDecl struct {
	Target *ScopedIdentifier
	Value  Expr
}

// IfDecl is a labelled generate-if block.  When the condition can be evaluated
// during elaboration only the selected branch is elaborated.
type IfDecl struct {
	Name resource.Token
	Cond Expr
	Then []Decl
	Else []Decl
}

func (d *ModuleDecl) Pos() resource.Token         { return d.Name }
func (d *InterfaceDecl) Pos() resource.Token      { return d.Name }
func (d *PackageDecl) Pos() resource.Token        { return d.Name }
func (d *ProtoModuleDecl) Pos() resource.Token    { return d.Name }
func (d *ProtoInterfaceDecl) Pos() resource.Token { return d.Name }
func (d *ProtoPackageDecl) Pos() resource.Token   { return d.Name }
func (d *ParamDecl) Pos() resource.Token          { return d.Name }
func (d *PortDecl) Pos() resource.Token           { return d.Name }
func (d *VarDecl) Pos() resource.Token            { return d.Name }
func (d *StructDecl) Pos() resource.Token         { return d.Name }
func (d *EnumDecl) Pos() resource.Token           { return d.Name }
func (d *TypeDefDecl) Pos() resource.Token        { return d.Name }
func (d *ModportDecl) Pos() resource.Token        { return d.Name }
func (d *InstDecl) Pos() resource.Token           { return d.Name }
func (d *FunctionDecl) Pos() resource.Token       { return d.Name }
func (d *ImportDecl) Pos() resource.Token         { return d.Path.Pos() }
func (d *AssignDecl) Pos() resource.Token         { return d.Target.Pos() }
func (d *IfDecl) Pos() resource.Token             { return d.Name }

func (*ModuleDecl) declNode()         {}
func (*InterfaceDecl) declNode()      {}
func (*PackageDecl) declNode()        {}
func (*ProtoModuleDecl) declNode()    {}
func (*ProtoInterfaceDecl) declNode() {}
func (*ProtoPackageDecl) declNode()   {}
func (*ParamDecl) declNode()          {}
func (*PortDecl) declNode()           {}
func (*VarDecl) declNode()            {}
func (*StructDecl) declNode()         {}
func (*EnumDecl) declNode()           {}
func (*TypeDefDecl) declNode()        {}
func (*ModportDecl) declNode()        {}
func (*InstDecl) declNode()           {}
func (*FunctionDecl) declNode()       {}
func (*ImportDecl) declNode()         {}
func (*AssignDecl) declNode()         {}
func (*IfDecl) declNode()             {}

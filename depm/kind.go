package depm

import (
	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/resource"
)

// SymbolKind is the closed set of entity kinds.  Every kind carries its own
// properties; the marker method keeps the set sealed to this package.
type SymbolKind interface {
	// KindName is the human readable name of the kind ("module", "struct
	// member", ...)
	KindName() string

	symbolKind()
}

// ParameterScope distinguishes overridable header parameters from local ones
type ParameterScope int

const (
	ParamGlobal ParameterScope = iota
	ParamLocal
)

type ModuleProperty struct {
	GenericParameters []SymbolID
	Parameters        []SymbolID
	Ports             []SymbolID
	Proto             *ast.ScopedIdentifier
	Decl              *ast.ModuleDecl
}

type InterfaceProperty struct {
	GenericParameters []SymbolID
	Parameters        []SymbolID
	Decl              *ast.InterfaceDecl
}

type PackageProperty struct {
	GenericParameters []SymbolID
	Decl              *ast.PackageDecl
}

type ProtoModuleProperty struct {
	Parameters []SymbolID
	Ports      []SymbolID
}

type ProtoInterfaceProperty struct {
	Parameters []SymbolID
}

type ProtoPackageProperty struct{}

// FunctionProperty describes a function.  Whether the function can be
// evaluated in a constant context is computed lazily by the symbol table.
type FunctionProperty struct {
	Ports  []SymbolID
	Return *ast.TypeExpr
	Decl   *ast.FunctionDecl

	constant *bool
}

type ProtoFunctionProperty struct {
	Ports  []SymbolID
	Return *ast.TypeExpr
}

type ParameterProperty struct {
	Scope ParameterScope
	Const bool
	Type  *ast.TypeExpr
	Value ast.Expr
}

type GenericParameterProperty struct {
	Bound   ast.BoundKind
	Type    *ast.TypeExpr
	Proto   *ast.ScopedIdentifier
	Default ast.Expr
}

type PortProperty struct {
	Direction ast.Direction
	Type      *ast.TypeExpr
}

type VariableProperty struct {
	Type *ast.TypeExpr
}

type StructMemberProperty struct {
	Type *ast.TypeExpr
}

type UnionMemberProperty struct {
	Type *ast.TypeExpr
}

type StructProperty struct {
	Members []SymbolID
}

type UnionProperty struct {
	Members []SymbolID
}

type EnumProperty struct {
	Type    *ast.TypeExpr
	Members []SymbolID
}

type EnumMemberProperty struct {
	Value ast.Expr
}

type TypeDefProperty struct {
	Type *ast.TypeExpr
}

// ModportMember is an interface member made visible by a modport
type ModportMember struct {
	Name      resource.StrID
	Direction ast.Direction
}

type ModportProperty struct {
	Members []ModportMember
}

// Lists reports whether the modport exposes name
func (mp *ModportProperty) Lists(name resource.StrID) bool {
	for _, m := range mp.Members {
		if m.Name == name {
			return true
		}
	}

	return false
}

type InstanceProperty struct {
	Type *ast.ScopedIdentifier
	Decl *ast.InstDecl
}

// GenericInstanceProperty is one elaboration of a generic symbol.  Arguments
// are the rendered values of the bound parameters.
type GenericInstanceProperty struct {
	Base      SymbolID
	Arguments []string
}

// NamespaceKind marks a project name
type NamespaceKind struct{}

// BlockKind marks a named generate block
type BlockKind struct{}

// SystemVerilogKind marks the `$sv` escape hatch; nothing below it is checked
type SystemVerilogKind struct{}

type SystemFunctionKind struct{}

func (*ModuleProperty) KindName() string           { return "module" }
func (*InterfaceProperty) KindName() string        { return "interface" }
func (*PackageProperty) KindName() string          { return "package" }
func (*ProtoModuleProperty) KindName() string      { return "proto module" }
func (*ProtoInterfaceProperty) KindName() string   { return "proto interface" }
func (*ProtoPackageProperty) KindName() string     { return "proto package" }
func (*FunctionProperty) KindName() string         { return "function" }
func (*ProtoFunctionProperty) KindName() string    { return "proto function" }
func (*GenericParameterProperty) KindName() string { return "generic parameter" }
func (*VariableProperty) KindName() string         { return "variable" }
func (*StructMemberProperty) KindName() string     { return "struct member" }
func (*UnionMemberProperty) KindName() string      { return "union member" }
func (*StructProperty) KindName() string           { return "struct" }
func (*UnionProperty) KindName() string            { return "union" }
func (*EnumProperty) KindName() string             { return "enum" }
func (*EnumMemberProperty) KindName() string       { return "enum member" }
func (*TypeDefProperty) KindName() string          { return "typedef" }
func (*ModportProperty) KindName() string          { return "modport" }
func (*InstanceProperty) KindName() string         { return "instance" }
func (*GenericInstanceProperty) KindName() string  { return "generic instance" }
func (*NamespaceKind) KindName() string            { return "namespace" }
func (*BlockKind) KindName() string                { return "block" }
func (*SystemVerilogKind) KindName() string        { return "systemverilog item" }
func (*SystemFunctionKind) KindName() string       { return "system function" }

func (p *ParameterProperty) KindName() string {
	switch {
	case p.Const:
		return "const"
	case p.Scope == ParamLocal:
		return "localparam"
	default:
		return "parameter"
	}
}

func (p *PortProperty) KindName() string {
	switch p.Direction {
	case ast.DirInput:
		return "input port"
	case ast.DirOutput:
		return "output port"
	case ast.DirInout:
		return "inout port"
	case ast.DirRef:
		return "ref port"
	case ast.DirModport:
		return "modport port"
	default:
		return "import port"
	}
}

func (*ModuleProperty) symbolKind()           {}
func (*InterfaceProperty) symbolKind()        {}
func (*PackageProperty) symbolKind()          {}
func (*ProtoModuleProperty) symbolKind()      {}
func (*ProtoInterfaceProperty) symbolKind()   {}
func (*ProtoPackageProperty) symbolKind()     {}
func (*FunctionProperty) symbolKind()         {}
func (*ProtoFunctionProperty) symbolKind()    {}
func (*ParameterProperty) symbolKind()        {}
func (*GenericParameterProperty) symbolKind() {}
func (*PortProperty) symbolKind()             {}
func (*VariableProperty) symbolKind()         {}
func (*StructMemberProperty) symbolKind()     {}
func (*UnionMemberProperty) symbolKind()      {}
func (*StructProperty) symbolKind()           {}
func (*UnionProperty) symbolKind()            {}
func (*EnumProperty) symbolKind()             {}
func (*EnumMemberProperty) symbolKind()       {}
func (*TypeDefProperty) symbolKind()          {}
func (*ModportProperty) symbolKind()          {}
func (*InstanceProperty) symbolKind()         {}
func (*GenericInstanceProperty) symbolKind()  {}
func (*NamespaceKind) symbolKind()            {}
func (*BlockKind) symbolKind()                {}
func (*SystemVerilogKind) symbolKind()        {}
func (*SystemFunctionKind) symbolKind()       {}

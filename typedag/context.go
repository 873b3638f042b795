package typedag

// Context tags an edge with the kind of definition that introduced it
type Context int

const (
	Irrelevant Context = iota
	Struct
	Union
	Enum
	Function
	TypeDef
	Const
	Module
	Interface
	Package
	Modport
	GenericInstance
)

var contextNames = [...]string{
	Irrelevant:      "irrelevant",
	Struct:          "struct",
	Union:           "union",
	Enum:            "enum",
	Function:        "function",
	TypeDef:         "typedef",
	Const:           "const",
	Module:          "module",
	Interface:       "interface",
	Package:         "package",
	Modport:         "modport",
	GenericInstance: "generic instance",
}

func (c Context) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}

	return "unknown"
}

// allowsDirectRecursion reports whether a symbol of this context may refer to
// itself: modules, interfaces and functions may instantiate or call themselves
func (c Context) allowsDirectRecursion() bool {
	return c == Module || c == Interface || c == Function
}

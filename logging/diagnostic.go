package logging

import (
	"fmt"

	"github.com/veryl-lang/veryl-sub003/resource"
)

// Code identifies the kind of problem a diagnostic reports
type Code int

// Enumeration of diagnostic codes
const (
	DuplicatedIdentifier Code = iota
	UndefinedIdentifier
	InvalidImport
	WrongSeparator
	MismatchType
	MismatchGenericsArity
	InvalidGenericArgument
	ExceedDepthLimit
	ExceedTotalLimit
	InfiniteRecursion
	CyclicTypeDependency
)

var codeNames = map[Code]string{
	DuplicatedIdentifier:   "duplicated_identifier",
	UndefinedIdentifier:    "undefined_identifier",
	InvalidImport:          "invalid_import",
	WrongSeparator:         "wrong_separator",
	MismatchType:           "mismatch_type",
	MismatchGenericsArity:  "mismatch_generics_arity",
	InvalidGenericArgument: "invalid_generic_argument",
	ExceedDepthLimit:       "exceed_depth_limit",
	ExceedTotalLimit:       "exceed_total_limit",
	InfiniteRecursion:      "infinite_recursion",
	CyclicTypeDependency:   "cyclic_type_dependency",
}

// categories group the codes under the banner shown to the user
var categories = map[Code]string{
	DuplicatedIdentifier:   "Definition",
	UndefinedIdentifier:    "Name",
	InvalidImport:          "Import",
	WrongSeparator:         "Usage",
	MismatchType:           "Type",
	MismatchGenericsArity:  "Generic",
	InvalidGenericArgument: "Generic",
	ExceedDepthLimit:       "Generic",
	ExceedTotalLimit:       "Generic",
	InfiniteRecursion:      "Generic",
	CyclicTypeDependency:   "Definition",
}

func (c Code) String() string {
	return codeNames[c]
}

// Diagnostic is a single problem found during analysis.  Diagnostics are plain
// data: the analyzer collects them and the caller decides how to present them.
type Diagnostic struct {
	Code    Code
	Message string
	Token   resource.Token
	IsError bool
}

// NewError creates an error diagnostic reported at tok
func NewError(code Code, tok resource.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		IsError: true,
	}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Token)
}

func (d *Diagnostic) isError() bool {
	return d.IsError
}

// ConfigError is an error in the project file or the command line
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}

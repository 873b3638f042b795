package resource

import "fmt"

// Token is a single occurrence of some text in a source file.  Positions are
// 1-based; a zero line means the token was synthesized.
type Token struct {
	ID     TokenID
	Text   StrID
	Line   int
	Column int
	Length int
	Source PathID
}

// NewToken interns the text and allocates a token at the given position
func NewToken(text string, line, column int, source PathID) Token {
	return Token{
		ID:     NewTokenID(),
		Text:   InsertStr(text),
		Line:   line,
		Column: column,
		Length: len(text),
		Source: source,
	}
}

// BuiltinToken creates a token for a symbol that has no source location
func BuiltinToken(text string) Token {
	return NewToken(text, 0, 0, BuiltinPath)
}

func (t Token) String() string {
	if t.Source == BuiltinPath {
		return fmt.Sprintf("%s <builtin>", t.Text)
	}

	return fmt.Sprintf("%s %s:%d:%d", t.Text, t.Source, t.Line, t.Column)
}

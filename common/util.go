package common

import "unicode"

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (project name, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	for i, c := range idstr {
		if unicode.IsLetter(c) || c == '_' {
			continue
		}

		if i > 0 && unicode.IsDigit(c) {
			continue
		}

		return false
	}

	return true
}

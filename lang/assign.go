package lang

import (
	"strings"
	"unicode"
)

// SplitAssignment splits block code of the form "name = expression".
//
// The split happens at the first '=' that is not part of a comparison
// operator ("==", "!=", "<=", ">="). The left side must be an identifier and
// the right side must be non-empty; both are returned trimmed. Otherwise ok
// is false and code is a plain expression.
func SplitAssignment(code string) (name, expr string, ok bool) {
	i := assignIndex(code)
	if i < 0 {
		return "", code, false
	}

	name = strings.TrimSpace(code[:i])
	expr = strings.TrimSpace(code[i+1:])

	if expr == "" || !IsIdentifier(name) {
		return "", code, false
	}

	return name, expr, true
}

func assignIndex(code string) int {
	for i := 0; i < len(code); i++ {
		if code[i] != '=' {
			continue
		}

		if i+1 < len(code) && code[i+1] == '=' {
			i++ // skip "=="

			continue
		}

		if i > 0 && strings.IndexByte("!<>=", code[i-1]) >= 0 {
			continue
		}

		return i
	}

	return -1
}

// IsIdentifier reports whether s is a valid variable name: a letter or
// underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

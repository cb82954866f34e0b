package utils

import (
	"strings"
	"unicode"
)

// reservedWords are TypeScript/ECMAScript keywords that cannot be used
// as bare property accessors or identifiers in generated code.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true,
}

// IsIdentifier reports whether s is a valid bare identifier in the
// generated language. Names failing this check are rendered with
// quoted/bracket accessor forms.
func IsIdentifier(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// splitWords breaks a name on the separators and case boundaries found
// in file and directory names (kebab-case, snake_case, dots, spaces).
func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	for _, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ' || r == '$':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// Camel converts a name to camelCase, producing a valid identifier for
// names like "user-profile" or "audit_log".
func Camel(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	var out strings.Builder
	for i, word := range words {
		if i == 0 {
			out.WriteString(lowerFirst(word))
		} else {
			out.WriteString(upperFirst(word))
		}
	}
	return out.String()
}

// Pascal converts a name to PascalCase.
func Pascal(s string) string {
	words := splitWords(s)
	var out strings.Builder
	for _, word := range words {
		out.WriteString(upperFirst(word))
	}
	return out.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

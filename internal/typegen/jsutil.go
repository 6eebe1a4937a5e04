package typegen

import (
	"fmt"
	"strings"
)

// isJSIdentifier reports whether s can be used unquoted as a property name
// or with dot-notation access.
func isJSIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// jsObjectKey returns a property key for an interface or object literal.
// "__proto__" is quoted to avoid triggering the prototype setter.
func jsObjectKey(propName string) string {
	if propName != "__proto__" && isJSIdentifier(propName) {
		return propName
	}
	return "\"" + jsStringEscape(propName) + "\""
}

// jsPropAccess returns a property access expression, using bracket notation
// for names that are not identifiers.
func jsPropAccess(accessor, propName string) string {
	if propName != "__proto__" && isJSIdentifier(propName) {
		return accessor + "." + propName
	}
	return accessor + "[\"" + jsStringEscape(propName) + "\"]"
}

// jsStringEscape escapes s for a double-quoted JavaScript string literal.
func jsStringEscape(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\u2028':
			buf.WriteString(`\u2028`)
		case '\u2029':
			buf.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				buf.WriteString(fmt.Sprintf(`\x%02x`, r))
			} else {
				buf.WriteRune(r)
			}
		}
	}
	return buf.String()
}

// lowerFirst lower-cases the leading run of capitals so "APIKey" becomes
// "apiKey" and "User" becomes "user".
func lowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && runes[n] >= 'A' && runes[n] <= 'Z' {
		n++
	}
	if n == 0 {
		return s
	}
	if n > 1 && n < len(runes) {
		// Keep the capital that starts the next word: "APIKey" -> "api" + "Key".
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = runes[i] + ('a' - 'A')
	}
	return string(runes)
}

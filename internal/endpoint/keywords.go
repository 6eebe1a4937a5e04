package endpoint

import "strings"

// reservedWords are TypeScript keywords and built-in type names that cannot
// be used as a generated type name (compared lower-cased).
var reservedWords = map[string]struct{}{
	"abstract": {}, "any": {}, "as": {}, "asserts": {}, "bigint": {}, "boolean": {},
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "constructor": {},
	"continue": {}, "debugger": {}, "declare": {}, "default": {}, "delete": {}, "do": {},
	"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {}, "finally": {},
	"for": {}, "from": {}, "function": {}, "get": {}, "if": {}, "implements": {},
	"import": {}, "in": {}, "infer": {}, "instanceof": {}, "interface": {}, "is": {},
	"keyof": {}, "let": {}, "module": {}, "namespace": {}, "never": {}, "new": {},
	"null": {}, "number": {}, "object": {}, "package": {}, "private": {}, "protected": {},
	"public": {}, "readonly": {}, "require": {}, "return": {}, "set": {}, "static": {},
	"string": {}, "super": {}, "switch": {}, "symbol": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "type": {}, "typeof": {}, "undefined": {}, "unique": {},
	"unknown": {}, "var": {}, "void": {}, "while": {}, "with": {}, "yield": {},
}

// IsReserved reports whether name is a reserved word, ignoring case.
func IsReserved(name string) bool {
	_, ok := reservedWords[strings.ToLower(name)]
	return ok
}


// globalTypeNames are names a generated declaration must not take: the
// generated Convert class and globals whose shadowing breaks generated code.
var globalTypeNames = map[string]struct{}{
	"Convert": {}, "Array": {}, "Boolean": {}, "Date": {}, "Error": {}, "JSON": {},
	"Map": {}, "Number": {}, "Object": {}, "Promise": {}, "Record": {}, "Set": {},
	"String": {}, "Symbol": {},
}

// IsGlobalTypeName reports whether a PascalCase type name collides with the
// generated Convert class or shadows a TypeScript global.
func IsGlobalTypeName(name string) bool {
	_, ok := globalTypeNames[name]
	return ok
}

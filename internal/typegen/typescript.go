package typegen

import (
	"fmt"
	"strings"
)

// renderTypeScript renders plain interfaces plus a Convert class.
func renderTypeScript(m *model, opts RenderOptions) string {
	e := NewEmitter()
	lower := lowerFirst(m.name)

	e.Line("// To parse this data:")
	e.Line("//")
	e.Line("//   import { Convert, %s } from \"./%s\";", m.name, m.name)
	e.Line("//")
	e.Line("//   const %s = Convert.to%s(json);", lower, m.name)
	if opts.RuntimeCheck {
		e.Line("//")
		e.Line("// Convert.to%s throws when the JSON does not match the expected shape.", m.name)
	}

	for _, d := range m.decls {
		e.Blank()
		e.Block("export interface %s", d.name)
		for _, p := range d.props {
			opt := ""
			if p.optional {
				opt = "?"
			}
			e.Line("%s%s: %s;", jsObjectKey(p.key), opt, tsType(p.typ))
		}
		e.EndBlock()
	}

	if !m.rootIsDecl() {
		e.Blank()
		e.Line("export type %s = %s;", m.name, tsType(m.root))
	}

	e.Blank()
	e.Line("// Converts JSON strings to/from your types")
	e.Block("export class Convert")
	e.Block("public static to%s(json: string): %s", m.name, m.name)
	if opts.RuntimeCheck {
		e.Line("const value: unknown = JSON.parse(json);")
		e.Block("if (!is%s(value))", m.name)
		e.Line("throw new Error(\"Invalid value for %s\");", m.name)
		e.EndBlock()
		e.Line("return value;")
	} else {
		e.Line("return JSON.parse(json);")
	}
	e.EndBlock()
	e.Blank()
	e.Block("public static %sToJson(value: %s): string", lower, m.name)
	e.Line("return JSON.stringify(value);")
	e.EndBlock()
	e.EndBlock()

	if opts.RuntimeCheck {
		renderTypeGuards(e, m)
	}

	return e.String()
}

// renderTypeGuards emits an is{Type} guard per declaration, plus one for the
// root alias when the root is not itself a declaration.
func renderTypeGuards(e *Emitter, m *model) {
	if !m.rootIsDecl() {
		e.Blank()
		e.Block("export function is%s(value: any): value is %s", m.name, m.name)
		e.Line("return %s;", isExpr("value", m.root, 0))
		e.EndBlock()
	}

	for _, d := range m.decls {
		parts := []string{
			"typeof value === \"object\"",
			"value !== null",
			"!Array.isArray(value)",
		}
		for _, p := range d.props {
			acc := jsPropAccess("value", p.key)
			check := isExpr(acc, p.typ, 0)
			if p.optional {
				check = fmt.Sprintf("(%s === undefined || %s)", acc, check)
			}
			parts = append(parts, check)
		}

		e.Blank()
		e.Block("export function is%s(value: any): value is %s", d.name, d.name)
		e.Line("return (")
		e.Indent()
		for i, part := range parts {
			if i < len(parts)-1 {
				e.Line("%s &&", part)
			} else {
				e.Line("%s", part)
			}
		}
		e.Dedent()
		e.Line(");")
		e.EndBlock()
	}
}

// tsType renders a type reference as a TypeScript type expression.
func tsType(t *typeRef) string {
	base := tsBaseType(t)
	if t.nullable && t.kind != kindNull {
		return base + " | null"
	}
	return base
}

func tsBaseType(t *typeRef) string {
	switch t.kind {
	case kindNull:
		return "null"
	case kindBoolean:
		return "boolean"
	case kindInteger, kindNumber:
		return "number"
	case kindString:
		return "string"
	case kindObject:
		return t.ref
	case kindArray:
		elem := tsType(t.elem)
		if t.elem.kind == kindUnion || (t.elem.nullable && t.elem.kind != kindNull) {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case kindUnion:
		members := make([]string, len(t.members))
		for i, mem := range t.members {
			members[i] = tsType(mem)
		}
		return strings.Join(members, " | ")
	}
	return "any"
}

// isExpr returns a boolean expression checking the value at accessor.
func isExpr(accessor string, t *typeRef, depth int) string {
	inner := isBaseExpr(accessor, t, depth)
	if t.nullable && t.kind != kindNull {
		return fmt.Sprintf("(%s === null || %s)", accessor, inner)
	}
	return inner
}

func isBaseExpr(accessor string, t *typeRef, depth int) string {
	switch t.kind {
	case kindNull:
		return fmt.Sprintf("%s === null", accessor)
	case kindBoolean:
		return fmt.Sprintf("typeof %s === \"boolean\"", accessor)
	case kindInteger:
		return fmt.Sprintf("Number.isInteger(%s)", accessor)
	case kindNumber:
		return fmt.Sprintf("typeof %s === \"number\"", accessor)
	case kindString:
		return fmt.Sprintf("typeof %s === \"string\"", accessor)
	case kindObject:
		return fmt.Sprintf("is%s(%s)", t.ref, accessor)
	case kindArray:
		elemVar := fmt.Sprintf("_v%d", depth)
		elemExpr := isExpr(elemVar, t.elem, depth+1)
		if elemExpr == "true" {
			return fmt.Sprintf("Array.isArray(%s)", accessor)
		}
		return fmt.Sprintf("(Array.isArray(%s) && %s.every((%s: any) => %s))", accessor, accessor, elemVar, elemExpr)
	case kindUnion:
		checks := make([]string, len(t.members))
		for i, mem := range t.members {
			checks[i] = isExpr(accessor, mem, depth)
		}
		return "(" + strings.Join(checks, " || ") + ")"
	}
	return "true"
}

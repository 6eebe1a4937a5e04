package typegen

import "strings"

// renderEffect renders Effect Schema definitions with derived static types.
func renderEffect(m *model) string {
	e := NewEmitter()
	lower := lowerFirst(m.name)

	e.Line("// To decode this data:")
	e.Line("//")
	e.Line("//   import * as S from \"effect/Schema\";")
	e.Line("//   import { %sSchema } from \"./%s\";", m.name, m.name)
	e.Line("//")
	e.Line("//   const %s = S.decodeUnknownSync(%sSchema)(JSON.parse(json));", lower, m.name)
	e.Blank()
	e.Line("import * as S from \"effect/Schema\";")

	for _, d := range m.dependencyOrder() {
		e.Blank()
		e.Line("export const %sSchema = S.Struct({", d.name)
		e.Indent()
		for _, p := range d.props {
			expr := effectExpr(p.typ)
			if p.optional {
				expr = "S.optional(" + expr + ")"
			}
			e.Line("%s: %s,", jsObjectKey(p.key), expr)
		}
		e.EndBlockSuffix(");")
		e.Line("export type %s = S.Schema.Type<typeof %sSchema>;", d.name, d.name)
	}

	if !m.rootIsDecl() {
		e.Blank()
		e.Line("export const %sSchema = %s;", m.name, effectExpr(m.root))
		e.Line("export type %s = S.Schema.Type<typeof %sSchema>;", m.name, m.name)
	}

	return e.String()
}

func effectExpr(t *typeRef) string {
	base := effectBaseExpr(t)
	if t.nullable && t.kind != kindNull {
		return "S.NullOr(" + base + ")"
	}
	return base
}

func effectBaseExpr(t *typeRef) string {
	switch t.kind {
	case kindNull:
		return "S.Null"
	case kindBoolean:
		return "S.Boolean"
	case kindInteger:
		return "S.Int"
	case kindNumber:
		return "S.Number"
	case kindString:
		return "S.String"
	case kindObject:
		return t.ref + "Schema"
	case kindArray:
		return "S.Array(" + effectExpr(t.elem) + ")"
	case kindUnion:
		members := make([]string, len(t.members))
		for i, mem := range t.members {
			members[i] = effectExpr(mem)
		}
		return "S.Union(" + strings.Join(members, ", ") + ")"
	}
	return "S.Unknown"
}

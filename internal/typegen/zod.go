package typegen

import "strings"

// renderZod renders Zod schemas with inferred static types.
func renderZod(m *model) string {
	e := NewEmitter()
	lower := lowerFirst(m.name)

	e.Line("// To validate this data:")
	e.Line("//")
	e.Line("//   import { %sSchema } from \"./%s\";", m.name, m.name)
	e.Line("//")
	e.Line("//   const %s = %sSchema.parse(JSON.parse(json));", lower, m.name)
	e.Blank()
	e.Line("import * as z from \"zod\";")

	for _, d := range m.dependencyOrder() {
		e.Blank()
		e.Line("export const %sSchema = z.object({", d.name)
		e.Indent()
		for _, p := range d.props {
			expr := zodExpr(p.typ)
			if p.optional {
				expr += ".optional()"
			}
			e.Line("%s: %s,", jsObjectKey(p.key), expr)
		}
		e.EndBlockSuffix(");")
		e.Line("export type %s = z.infer<typeof %sSchema>;", d.name, d.name)
	}

	if !m.rootIsDecl() {
		e.Blank()
		e.Line("export const %sSchema = %s;", m.name, zodExpr(m.root))
		e.Line("export type %s = z.infer<typeof %sSchema>;", m.name, m.name)
	}

	return e.String()
}

func zodExpr(t *typeRef) string {
	base := zodBaseExpr(t)
	if t.nullable && t.kind != kindNull {
		return base + ".nullable()"
	}
	return base
}

func zodBaseExpr(t *typeRef) string {
	switch t.kind {
	case kindNull:
		return "z.null()"
	case kindBoolean:
		return "z.boolean()"
	case kindInteger:
		return "z.number().int()"
	case kindNumber:
		return "z.number()"
	case kindString:
		return "z.string()"
	case kindObject:
		return t.ref + "Schema"
	case kindArray:
		return "z.array(" + zodExpr(t.elem) + ")"
	case kindUnion:
		members := make([]string, len(t.members))
		for i, mem := range t.members {
			members[i] = zodExpr(mem)
		}
		return "z.union([" + strings.Join(members, ", ") + "])"
	}
	return "z.any()"
}

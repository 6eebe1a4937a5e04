package output

import (
	"strings"
	"time"

	"github.com/usestring/apitypes/internal/typegen"
)

// renderIndex re-exports every generated module. Plain TypeScript modules
// all export a class named Convert, so each is aliased per type.
func renderIndex(names []string, format typegen.Format, generatedAt time.Time) string {
	e := typegen.NewEmitter()
	e.Line("// Auto-generated type index")
	e.Line("// Generated at: %s", generatedAt.UTC().Format(time.RFC3339))
	e.Blank()
	for _, name := range names {
		switch format {
		case typegen.FormatZod, typegen.FormatEffectSchema:
			e.Line("export { %sSchema, type %s } from './%s';", name, name, name)
		default:
			e.Line("export { Convert as %sConvert, type %s } from './%s';", name, name, name)
		}
	}
	return e.String()
}

// renderUsageExample shows how to consume the first generated types.
func renderUsageExample(names []string, format typegen.Format) string {
	e := typegen.NewEmitter()
	e.Line("// API type usage examples")
	e.Blank()

	if format == typegen.FormatEffectSchema {
		e.Line("import * as S from \"effect/Schema\";")
	}
	for _, name := range names[:min(2, len(names))] {
		switch format {
		case typegen.FormatZod, typegen.FormatEffectSchema:
			e.Line("import { %sSchema, type %s } from './%s';", name, name, name)
		default:
			e.Line("import { Convert as %sConvert, type %s } from './%s';", name, name, name)
		}
	}

	first := names[0]
	e.Blank()
	e.Line("// Basic usage")
	e.Block("export async function fetch%s(id: number): Promise<%s | null>", first, first)
	e.Block("try")
	e.Line("const response = await fetch(`/api/%ss/${id}`);", strings.ToLower(first))
	e.Line("const jsonText = await response.text();")
	e.Line("return %s;", parseExpr(first, format))
	e.EndBlockSuffix(" catch (error) {")
	e.Indent()
	e.Line("console.error('Failed to parse response:', error);")
	e.Line("return null;")
	e.EndBlock()
	e.EndBlock()

	e.Blank()
	e.Line("// Batch processing")
	e.Block("export function safeBatchParse<T>(jsonList: string[], converter: (json: string) => T): T[]")
	e.Line("const results: T[] = [];")
	e.Line("const errors: string[] = [];")
	e.Blank()
	e.Block("jsonList.forEach((json, index) =>")
	e.Block("try")
	e.Line("results.push(converter(json));")
	e.EndBlockSuffix(" catch (error) {")
	e.Indent()
	e.Line("errors.push(`item ${index + 1}: ${(error as Error).message}`);")
	e.EndBlock()
	e.EndBlockSuffix(");")
	e.Blank()
	e.Block("if (errors.length > 0)")
	e.Line("console.warn('Parse warnings:', errors);")
	e.EndBlock()
	e.Line("return results;")
	e.EndBlock()

	e.Blank()
	e.Line("// Error handling")
	e.Block("export function safeParseWithFallback<T>(json: string, converter: (json: string) => T, fallback: T): T")
	e.Block("try")
	e.Line("return converter(json);")
	e.EndBlockSuffix(" catch (error) {")
	e.Indent()
	e.Line("console.warn('Parse failed, using fallback:', (error as Error).message);")
	e.Line("return fallback;")
	e.EndBlock()
	e.EndBlock()

	return e.String()
}

// parseExpr is the expression turning jsonText into a typed value.
func parseExpr(name string, format typegen.Format) string {
	switch format {
	case typegen.FormatZod:
		return name + "Schema.parse(JSON.parse(jsonText))"
	case typegen.FormatEffectSchema:
		return "S.decodeUnknownSync(" + name + "Schema)(JSON.parse(jsonText))"
	}
	return name + "Convert.to" + name + "(jsonText)"
}

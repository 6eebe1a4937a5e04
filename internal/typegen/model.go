package typegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/usestring/apitypes/internal/endpoint"
)

var keySeparator = regexp.MustCompile(`[^A-Za-z0-9]+`)

type kind int

const (
	kindAny kind = iota
	kindNull
	kindBoolean
	kindInteger
	kindNumber
	kindString
	kindArray
	kindObject
	kindUnion
)

// typeRef is a reference to a type in the rendered output.
type typeRef struct {
	kind     kind
	elem     *typeRef   // kindArray
	ref      string     // kindObject: declaration name
	members  []*typeRef // kindUnion, never contains null
	nullable bool
}

type property struct {
	key      string
	typ      *typeRef
	optional bool
}

// decl is a named object type.
type decl struct {
	name  string
	props []property
}

// model is the renderable form of one endpoint's inferred schema.
type model struct {
	name string
	root *typeRef
	// decls in discovery order: the root object (if any) first, then
	// nested objects depth-first.
	decls []*decl
}

// rootIsDecl reports whether the root type is an object declared under the
// endpoint's own name, so no separate alias is needed.
func (m *model) rootIsDecl() bool {
	return m.root.kind == kindObject && !m.root.nullable && m.root.ref == m.name
}

// dependencyOrder returns decls with every declaration after the ones it
// references, for renderers whose output is evaluated top to bottom.
func (m *model) dependencyOrder() []*decl {
	byName := make(map[string]*decl, len(m.decls))
	for _, d := range m.decls {
		byName[d.name] = d
	}

	visited := make(map[string]bool, len(m.decls))
	out := make([]*decl, 0, len(m.decls))
	var visit func(t *typeRef)
	visit = func(t *typeRef) {
		if t == nil {
			return
		}
		switch t.kind {
		case kindArray:
			visit(t.elem)
		case kindUnion:
			for _, mem := range t.members {
				visit(mem)
			}
		case kindObject:
			if visited[t.ref] {
				return
			}
			visited[t.ref] = true
			d := byName[t.ref]
			for _, p := range d.props {
				visit(p.typ)
			}
			out = append(out, d)
		}
	}
	visit(m.root)
	return out
}

// builder converts an inferred schema into a model, assigning unique names.
type builder struct {
	used  map[string]bool
	decls []*decl
}

func buildModel(name string, schema *jsonschema.Schema) *model {
	b := &builder{used: map[string]bool{name: true, name + "Schema": true}}

	m := &model{name: name}
	switch {
	case isObject(schema):
		m.root = b.object(name, schema)
	case schema.Type == "array":
		itemName := singularize(name)
		if itemName == name {
			itemName = name + "Item"
		}
		m.root = &typeRef{kind: kindArray, elem: b.ref(itemName, schema.Items, name)}
	default:
		m.root = b.ref(name+"Value", schema, name)
	}
	m.decls = b.decls
	return m
}

func isObject(s *jsonschema.Schema) bool {
	return s != nil && s.Type == "object" && len(s.AnyOf) == 0
}

// ref converts s to a type reference, declaring nested objects under hint.
// parent disambiguates hints that are not valid type names on their own.
func (b *builder) ref(hint string, s *jsonschema.Schema, parent string) *typeRef {
	if s == nil {
		return &typeRef{kind: kindAny}
	}

	if len(s.AnyOf) > 0 {
		var members []*typeRef
		nullable := false
		for _, sub := range s.AnyOf {
			if sub.Type == "null" {
				nullable = true
				continue
			}
			members = append(members, b.ref(hint, sub, parent))
		}
		switch len(members) {
		case 0:
			return &typeRef{kind: kindNull}
		case 1:
			t := members[0]
			t.nullable = t.nullable || nullable
			return t
		}
		return &typeRef{kind: kindUnion, members: members, nullable: nullable}
	}

	switch s.Type {
	case "null":
		return &typeRef{kind: kindNull}
	case "boolean":
		return &typeRef{kind: kindBoolean}
	case "integer":
		return &typeRef{kind: kindInteger}
	case "number":
		return &typeRef{kind: kindNumber}
	case "string":
		return &typeRef{kind: kindString}
	case "array":
		return &typeRef{kind: kindArray, elem: b.ref(singularize(hint), s.Items, parent)}
	case "object":
		return b.object(b.unique(typeName(hint, parent)), s)
	}
	return &typeRef{kind: kindAny}
}

func (b *builder) object(name string, s *jsonschema.Schema) *typeRef {
	d := &decl{name: name}
	// Register before recursing so the root is emitted first.
	b.decls = append(b.decls, d)

	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			d.props = append(d.props, property{
				key:      pair.Key,
				typ:      b.ref(pair.Key, pair.Value, name),
				optional: !required[pair.Key],
			})
		}
	}
	return &typeRef{kind: kindObject, ref: name}
}

// unique returns name, or name with the smallest free numeric suffix.
// A name also claims its "{name}Schema" companion used by schema renderers.
// Global type names are never taken.
func (b *builder) unique(name string) string {
	candidate := name
	for i := 2; b.used[candidate] || b.used[candidate+"Schema"] || endpoint.IsGlobalTypeName(candidate); i++ {
		candidate = name + strconv.Itoa(i)
	}
	b.used[candidate] = true
	b.used[candidate+"Schema"] = true
	return candidate
}

// typeName derives a type name from a property key. Unlike endpoint names,
// keys keep their inner casing so "billingAddress" becomes "BillingAddress".
func typeName(hint, parent string) string {
	var b strings.Builder
	for _, part := range keySeparator.Split(hint, -1) {
		if part == "" {
			continue
		}
		if abbr, ok := endpoint.Abbreviations[strings.ToLower(part)]; ok {
			b.WriteString(abbr)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	name := b.String()
	if name == "" {
		return parent + "Item"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return parent + name
	}
	return name
}

// singularize applies common English plural rules to a name.
func singularize(s string) string {
	lower := strings.ToLower(s)
	switch {
	case len(s) > 3 && strings.HasSuffix(lower, "ies"):
		return s[:len(s)-3] + matchCase(s[len(s)-3:], "y")
	case strings.HasSuffix(lower, "sses"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(lower, "ss"),
		strings.HasSuffix(lower, "us"),
		strings.HasSuffix(lower, "is"):
		return s
	case len(s) > 1 && strings.HasSuffix(lower, "s"):
		return s[:len(s)-1]
	}
	return s
}

// matchCase returns repl upper-cased when ref is all upper case.
func matchCase(ref, repl string) string {
	if ref == strings.ToUpper(ref) {
		return strings.ToUpper(repl)
	}
	return repl
}

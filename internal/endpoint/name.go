package endpoint

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Abbreviations maps lower-cased name segments to their canonical casing.
var Abbreviations = map[string]string{
	"api":   "API",
	"xml":   "XML",
	"html":  "HTML",
	"css":   "CSS",
	"json":  "JSON",
	"url":   "URL",
	"uri":   "URI",
	"http":  "HTTP",
	"https": "HTTPS",
	"id":    "ID",
	"uuid":  "UUID",
	"sql":   "SQL",
	"db":    "DB",
	"ui":    "UI",
	"ux":    "UX",
	"io":    "IO",
	"os":    "OS",
	"cpu":   "CPU",
	"gpu":   "GPU",
	"ram":   "RAM",
	"ssd":   "SSD",
	"hdd":   "HDD",
	"pdf":   "PDF",
	"zip":   "ZIP",
	"csv":   "CSV",
	"md5":   "MD5",
	"sha":   "SHA",
	"jwt":   "JWT",
	"oauth": "OAuth",
	"cors":  "CORS",
	"csrf":  "CSRF",
	"xss":   "XSS",
}

var (
	separatorRun = regexp.MustCompile(`[-\s.]+`)
	nonIdentChar = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// ToPascalCase converts a raw endpoint name into a type identifier.
// Segments are split on '-', whitespace, '.' and '_'; known abbreviations keep
// their canonical casing, other segments are title-cased.
func ToPascalCase(input string) string {
	s := separatorRun.ReplaceAllString(strings.TrimSpace(input), "_")
	s = nonIdentChar.ReplaceAllString(s, "")

	// cases.Caser is not safe for concurrent use.
	title := cases.Title(language.English)

	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if abbr, ok := Abbreviations[strings.ToLower(part)]; ok {
			b.WriteString(abbr)
			continue
		}
		b.WriteString(title.String(part))
	}
	return b.String()
}

package apidoc

import (
	"strings"
)

// SanitizeDoc joins the non-empty parts with line breaks and renders every
// line break as <br/>.
func SanitizeDoc(parts ...string) string {
	var lines []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		lines = append(lines, strings.Split(p, "\n")...)
	}
	return strings.Join(lines, "<br/>")
}

// cleanDoc trims every line of doc, drops field lines such as ":param x:" or
// ":return:" and the blank lines around the text.
func cleanDoc(doc string) string {
	var lines []string
	for _, l := range strings.Split(doc, "\n") {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, ":") {
			continue
		}
		lines = append(lines, l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseMethodDoc renders a handler doc comment for an operation description.
// If op already has a summary it is prepended.
func ParseMethodDoc(doc string, op Object) string {
	return SanitizeDoc(stringValue(op, "summary"), cleanDoc(doc))
}

// ParseSchemaDoc returns the rendered doc comment of a model, or "" when the
// definition already carries a description.
func ParseSchemaDoc(doc string, definition Object) string {
	if _, ok := definition["description"]; ok {
		return ""
	}
	return SanitizeDoc(cleanDoc(doc))
}

// firstLine returns the first non-empty line of a cleaned doc comment.
func firstLine(doc string) string {
	doc = cleanDoc(doc)
	line, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSuffix(line, ".")
}

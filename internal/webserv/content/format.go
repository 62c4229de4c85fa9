package content

import (
	"regexp"
	"strings"
)

// placeholderPattern matches a named placeholder like {space} in an error
// message template.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// FormatTemplate substitutes named placeholders in a template with the given
// arguments. A placeholder that has no matching argument yields
// ErrTemplateArgMissing carrying the placeholder name; the caller decides the
// fallback, this never panics.
func FormatTemplate(template string, args map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := strings.Trim(m, "{}")
		v, ok := args[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", ErrTemplateArgMissing.New("missing template argument: " + missing)
	}
	return out, nil
}

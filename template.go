package docmap

import (
	"fmt"
	"regexp"
)

var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// TemplatePlaceholders returns the distinct placeholder names found in an
// index-name template, e.g. "products/{store_id}" -> ["store_id"].
// Order follows first appearance.
func TemplatePlaceholders(template string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// ResolveTemplate substitutes every placeholder in template with the
// matching entry from values. Placeholders with no matching value fail
// with a MissingTemplateValueError naming all of them; there is no
// silent default.
func ResolveTemplate(template string, values Values) (string, error) {
	var missing []string
	seen := make(map[string]bool)
	path := placeholderRegex.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok || v == nil {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return m
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		return "", &MissingTemplateValueError{Template: template, Missing: missing}
	}
	return path, nil
}

// Package parser extracts catalog metadata from Markdown content files.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/sowilo/internal/models"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of parsing a content file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
	Description string
	Kind        models.ContentKind
	Category    string
	Level       string
	Order       int
	Tags        []string
}

// Parse extracts frontmatter, body, and catalog fields from raw Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Description: deriveDescription(fm, body),
		Kind:        deriveKind(fm),
		Category:    fmString(fm, "category"),
		Level:       fmString(fm, "level"),
		Order:       fmInt(fm, "order"),
		Tags:        extractTags(body, fm),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML — return body only, no error.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// deriveKind reads the frontmatter "kind" field. Unknown or missing kinds
// default to article so legacy content stays listed.
func deriveKind(fm map[string]interface{}) models.ContentKind {
	k := models.ContentKind(fmString(fm, "kind"))
	if k.Valid() {
		return k
	}
	return models.KindArticle
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if t := fmString(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// deriveDescription returns the frontmatter "description" if present, otherwise
// the first non-heading paragraph line of the body, capped at 200 runes.
func deriveDescription(fm map[string]interface{}, body string) string {
	if d := fmString(fm, "description"); d != "" {
		return d
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if r := []rune(trimmed); len(r) > 200 {
			return string(r[:200])
		}
		return trimmed
	}
	return ""
}

// extractTags collects #tags from body and from frontmatter "tags" field.
func extractTags(body string, fm map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var out []string

	if fm != nil {
		if raw, ok := fm["tags"]; ok {
			if list, ok := raw.([]interface{}); ok {
				for _, item := range list {
					if s, ok := item.(string); ok {
						s = strings.TrimSpace(s)
						if s == "" {
							continue
						}
						if _, dup := seen[s]; !dup {
							seen[s] = struct{}{}
							out = append(out, s)
						}
					}
				}
			}
		}
	}

	matches := tagRe.FindAllStringSubmatch(body, -1)
	for _, m := range matches {
		t := m[1]
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	return out
}

func fmString(fm map[string]interface{}, key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func fmInt(fm map[string]interface{}, key string) int {
	if fm == nil {
		return 0
	}
	switch v := fm[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

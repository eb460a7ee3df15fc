package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/sowilo/internal/models"
)

// LoadPaths reads every learning-path definition (*.yaml / *.yml) under dir.
// Definitions are immutable for the process lifetime; the result is sorted by
// path id. A missing directory yields an empty set, not an error.
func LoadPaths(dir string) ([]models.LearningPath, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: read paths dir: %w", err)
	}

	seen := make(map[string]struct{})
	var out []models.LearningPath
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("catalog: read path file %s: %w", name, err)
		}

		var p models.LearningPath
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("catalog: parse path file %s: %w", name, err)
		}
		if err := validatePath(&p); err != nil {
			return nil, fmt.Errorf("catalog: invalid path file %s: %w", name, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate path id %q in %s", p.ID, name)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func validatePath(p *models.LearningPath) error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	for i, step := range p.Steps {
		if !step.Type.Valid() {
			return fmt.Errorf("step %d: unknown type %q", i, step.Type)
		}
		if step.Slug == "" {
			return fmt.Errorf("step %d: slug is required", i)
		}
	}
	return nil
}

package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
)

const defaultMaxFewShot = 2

// Catalog holds the loaded per-item templates, keyed by item number.
// Loaded once at engine construction per §6.3.
type Catalog struct {
	templates   map[int]Template
	maxFewShot  int
}

// LoadCatalog reads every YAML file directly under dir as a Template,
// keyed by its item_no field. An item with no file in dir has no entry
// and callers must treat it as skipped (§4.6).
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domainerr.NewConfig(fmt.Sprintf("read prompt catalog dir %s", dir), err)
	}

	c := &Catalog{templates: make(map[int]Template), maxFewShot: defaultMaxFewShot}
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domainerr.NewConfig(fmt.Sprintf("read prompt template %s", path), err)
		}
		var tmpl Template
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return nil, domainerr.NewConfig(fmt.Sprintf("parse prompt template %s", path), err)
		}
		if tmpl.ItemNo == 0 {
			return nil, domainerr.NewConfig(fmt.Sprintf("prompt template %s missing item_no", path), nil)
		}
		c.templates[tmpl.ItemNo] = tmpl
	}
	return c, nil
}

func isYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// Has reports whether itemNo has a registered template.
func (c *Catalog) Has(itemNo int) bool {
	_, ok := c.templates[itemNo]
	return ok
}

// Render produces the final (system_prompt, user_prompt) pair for an
// item, substituting vars and appending few-shot examples (capped at
// Catalog's configured max) to the system prompt as "Input: … / Output:
// …" pairs.
func (c *Catalog) Render(itemNo int, vars Variables) (systemPrompt, userPrompt string, err error) {
	tmpl, ok := c.templates[itemNo]
	if !ok {
		return "", "", fmt.Errorf("no prompt template registered for item %d", itemNo)
	}

	m := varsMap(vars)
	systemPrompt, err = renderOne(tmpl.SystemPrompt, m)
	if err != nil {
		return "", "", fmt.Errorf("item %d system prompt: %w", itemNo, err)
	}
	userPrompt, err = renderOne(tmpl.UserPrompt, m)
	if err != nil {
		return "", "", fmt.Errorf("item %d user prompt: %w", itemNo, err)
	}

	examples := tmpl.FewShotExamples
	if len(examples) > c.maxFewShot {
		examples = examples[:c.maxFewShot]
	}
	if len(examples) > 0 {
		var b strings.Builder
		b.WriteString(systemPrompt)
		for _, ex := range examples {
			b.WriteString("\n\nInput: ")
			b.WriteString(ex.Input)
			b.WriteString("\nOutput: ")
			b.WriteString(ex.Output)
		}
		systemPrompt = b.String()
	}

	return systemPrompt, userPrompt, nil
}

// SetMaxFewShot overrides the default few-shot cap (2).
func (c *Catalog) SetMaxFewShot(n int) {
	if n >= 0 {
		c.maxFewShot = n
	}
}

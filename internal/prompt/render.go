package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// bareVarPattern matches Jinja-style {{ var }} tokens with no pipelines
// or control flow, the only substitution form the catalog permits.
var bareVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// toGoTemplate rewrites bare {{ var }} tokens into text/template's
// {{ .var }} field-access form, rejecting anything else that looks like
// a template action (pipelines, control flow) so the catalog stays to
// the "minimal Jinja-style substitution" contract.
func toGoTemplate(src string) (string, error) {
	if strings.Contains(src, "{{") {
		remaining := bareVarPattern.ReplaceAllString(src, "")
		if strings.Contains(remaining, "{{") {
			return "", fmt.Errorf("prompt template contains unsupported action (only bare {{ var }} substitution is allowed)")
		}
	}
	return bareVarPattern.ReplaceAllString(src, "{{ .$1 }}"), nil
}

func renderOne(src string, vars map[string]string) (string, error) {
	goSrc, err := toGoTemplate(src)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(goSrc)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func varsMap(vars Variables) map[string]string {
	return map[string]string{
		"section_content": vars.SectionContent,
		"franchise_name":  vars.FranchiseName,
	}
}

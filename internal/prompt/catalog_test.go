package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplateFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadCatalog_LoadsTemplatesByItemNo(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "item5_fees.yaml", `
name: item5_fees
item_no: 5
system_prompt: "You extract fees for {{ franchise_name }}."
user_prompt: "Section text: {{ section_content }}"
few_shot_examples:
  - input: "Initial fee is $25,000."
    output: "{\"initial_franchise_fee_cents\": 2500000}"
  - input: "Initial fee is $30,000."
    output: "{\"initial_franchise_fee_cents\": 3000000}"
  - input: "Initial fee is $40,000."
    output: "{\"initial_franchise_fee_cents\": 4000000}"
`)

	cat, err := LoadCatalog(dir)
	require.NoError(t, err)
	assert.True(t, cat.Has(5))
	assert.False(t, cat.Has(6))
}

func TestRender_SubstitutesVariablesAndCapsFewShot(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "item5_fees.yaml", `
name: item5_fees
item_no: 5
system_prompt: "You extract fees for {{ franchise_name }}."
user_prompt: "Section text: {{ section_content }}"
few_shot_examples:
  - input: "a"
    output: "1"
  - input: "b"
    output: "2"
  - input: "c"
    output: "3"
`)
	cat, err := LoadCatalog(dir)
	require.NoError(t, err)

	system, user, err := cat.Render(5, Variables{SectionContent: "fees text", FranchiseName: "Acme"})
	require.NoError(t, err)
	assert.Contains(t, system, "You extract fees for Acme.")
	assert.Contains(t, system, "Input: a\nOutput: 1")
	assert.Contains(t, system, "Input: b\nOutput: 2")
	assert.NotContains(t, system, "Input: c")
	assert.Equal(t, "Section text: fees text", user)
}

func TestRender_UnregisteredItemErrors(t *testing.T) {
	dir := t.TempDir()
	cat, err := LoadCatalog(dir)
	require.NoError(t, err)
	_, _, err = cat.Render(99, Variables{})
	assert.Error(t, err)
}

func TestToGoTemplate_RejectsPipelinesAndControlFlow(t *testing.T) {
	_, err := toGoTemplate("{{ if true }}bad{{ end }}")
	assert.Error(t, err)

	_, err = toGoTemplate("{{ section_content | upper }}")
	assert.Error(t, err)
}

func TestToGoTemplate_PlainTextPassesThrough(t *testing.T) {
	out, err := toGoTemplate("no variables here")
	require.NoError(t, err)
	assert.Equal(t, "no variables here", out)
}

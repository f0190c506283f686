package prompt

// Example is a single few-shot demonstration appended to the system
// prompt as an "Input: … / Output: …" pair.
type Example struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Template is one item's prompt definition, loaded from a YAML file
// under the catalog directory (§6.3).
type Template struct {
	Name             string    `yaml:"name"`
	ItemNo           int       `yaml:"item_no"`
	SystemPrompt     string    `yaml:"system_prompt"`
	UserPrompt       string    `yaml:"user_prompt"`
	FewShotExamples  []Example `yaml:"few_shot_examples"`
	ValidationRules  []string  `yaml:"validation_rules"`
}

// Variables are the template substitution values for one rendering,
// exposed as {{ section_content }} / {{ franchise_name }}.
type Variables struct {
	SectionContent string
	FranchiseName  string
}

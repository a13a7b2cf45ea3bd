package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptOverrides replaces built-in system instructions. Empty fields keep the default.
//
//	plan_chat: |
//	  You are a planning assistant...
//	completion_report: |
//	  ...
type PromptOverrides struct {
	PlanChat         string `yaml:"plan_chat"`
	PlanChatFreeform string `yaml:"plan_chat_freeform"`
	ToolSearch       string `yaml:"tool_search"`
	CustomTools      string `yaml:"custom_tools"`
	ToolReport       string `yaml:"tool_report"`
	General          string `yaml:"general"`
	WorkReport       string `yaml:"work_report"`
	CompletionReport string `yaml:"completion_report"`
}

// LoadPromptOverrides reads a YAML prompts file. An empty path returns empty overrides.
func LoadPromptOverrides(path string) (PromptOverrides, error) {
	var out PromptOverrides
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading prompts file: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}
	return out, nil
}

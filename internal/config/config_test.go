package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PLANBUDDY_MODE", "PLANBUDDY_PORT", "PORT", "PLANBUDDY_LLM_BACKEND", "LLM_BACKEND",
		"PLANBUDDY_GOOGLE_API_KEY", "GOOGLE_API_KEY", "PLANBUDDY_GCP_PROJECT", "GCP_PROJECT",
		"PLANBUDDY_STORAGE_BACKEND", "STORAGE_BACKEND", "PLANBUDDY_INITIATION_MODE",
		"INITIATION_MODE", "PLANBUDDY_TEMPERATURE", "TEMPERATURE", "MODE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, LLMMock, cfg.LLMBackend)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, InitiationStructured, cfg.InitiationMode)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
}

func TestLoad_APIKeySelectsGemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LLMGemini, cfg.LLMBackend)
	assert.Equal(t, "k", cfg.GoogleAPIKey)
}

func TestLoad_PrefixedWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PLANBUDDY_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown storage":         {"PLANBUDDY_STORAGE_BACKEND": "redis"},
		"firestore needs project": {"PLANBUDDY_STORAGE_BACKEND": "firestore"},
		"vertex needs project":    {"PLANBUDDY_LLM_BACKEND": "vertex"},
		"bad initiation mode":     {"PLANBUDDY_INITIATION_MODE": "chatty"},
		"bad temperature":         {"PLANBUDDY_TEMPERATURE": "3"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadPromptOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yml")
	require.NoError(t, os.WriteFile(path, []byte("plan_chat: |\n  Custom planner.\ntool_search: finder\n"), 0o644))

	p, err := LoadPromptOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "Custom planner.\n", p.PlanChat)
	assert.Equal(t, "finder", p.ToolSearch)
	assert.Empty(t, p.WorkReport)

	empty, err := LoadPromptOverrides("")
	require.NoError(t, err)
	assert.Equal(t, PromptOverrides{}, empty)

	_, err = LoadPromptOverrides(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

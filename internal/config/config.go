package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. PLANBUDDY_PORT.
// Tagged variables also fall back to their unprefixed name (PORT, GOOGLE_API_KEY).
const EnvPrefix = "PLANBUDDY"

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	LLMGemini = "gemini"
	LLMVertex = "vertex"
	LLMMock   = "mock"

	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"

	InitiationStructured = "structured"
	InitiationFreeform   = "freeform"
)

type Config struct {
	Mode     Mode   `envconfig:"MODE" default:"local"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LLMBackend is gemini (API key), vertex or mock. Empty picks gemini when an
	// API key is present, vertex in gcp mode and mock otherwise.
	LLMBackend      string  `envconfig:"LLM_BACKEND"`
	GoogleAPIKey    string  `envconfig:"GOOGLE_API_KEY"`
	GCPProjectID    string  `envconfig:"GCP_PROJECT"`
	GCPLocation     string  `envconfig:"GCP_LOCATION" default:"us-central1"`
	ModelName       string  `envconfig:"MODEL_NAME" default:"gemini-2.5-flash"`
	Temperature     float32 `envconfig:"TEMPERATURE" default:"0.7"`
	MaxOutputTokens int32   `envconfig:"MAX_OUTPUT_TOKENS" default:"8192"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"` // memory, sqlite or firestore
	Workspace      string `envconfig:"WORKSPACE" default:"."`            // sqlite database directory

	FirestoreCollection string `envconfig:"FIRESTORE_COLLECTION" default:"planbuddy-kv"`
	// CredentialsFile is a service account key for Firestore; empty uses ADC.
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`

	// InitiationMode selects how the plan drafting chat asks for the plan fragment.
	InitiationMode string `envconfig:"INITIATION_MODE" default:"structured"`
	PromptsFile    string `envconfig:"PROMPTS_FILE"`
	SeedDemo       bool   `envconfig:"SEED_DEMO" default:"false"`
}

// Load reads all env vars, fills defaults and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.LLMBackend = strings.ToLower(strings.TrimSpace(c.LLMBackend))
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.InitiationMode = strings.ToLower(strings.TrimSpace(c.InitiationMode))

	if c.LLMBackend == "" {
		switch {
		case c.GoogleAPIKey != "":
			c.LLMBackend = LLMGemini
		case c.Mode == ModeGCP:
			c.LLMBackend = LLMVertex
		default:
			c.LLMBackend = LLMMock
		}
	}
}

// Validate checks the combinations that cannot work at runtime.
// A gemini backend without an API key is allowed: requests then fail with a
// generation error instead of preventing startup.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeGCP:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}

	switch c.LLMBackend {
	case LLMGemini, LLMMock:
	case LLMVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return fmt.Errorf("config: %s_GCP_PROJECT and %s_GCP_LOCATION must be set for the vertex backend", EnvPrefix, EnvPrefix)
		}
	default:
		return fmt.Errorf("config: unknown llm backend %q", c.LLMBackend)
	}

	switch c.StorageBackend {
	case StorageMemory, StorageSQLite:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("config: %s_GCP_PROJECT is required for firestore storage", EnvPrefix)
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}

	switch c.InitiationMode {
	case InitiationStructured, InitiationFreeform:
	default:
		return fmt.Errorf("config: initiation mode must be structured or freeform, got %q", c.InitiationMode)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature must be within [0, 2]")
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("config: max output tokens must be positive")
	}
	return nil
}

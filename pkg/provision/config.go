package provision

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/webresearch/researcherctl/pkg/ollama"
)

// Config controls a provisioning run.
type Config struct {
	BaseModel     string `yaml:"base_model"`
	ModelName     string `yaml:"model_name"`
	ModelfilePath string `yaml:"modelfile"`
	OllamaURL     string `yaml:"ollama_url"`
}

// Defaults returns the stock configuration: the phi base model customized
// into the researcher persona, with the Modelfile written to the working
// directory.
func Defaults() Config {
	return Config{
		BaseModel:     "phi",
		ModelName:     "researcher",
		ModelfilePath: "Modelfile",
		OllamaURL:     ollama.DefaultBaseURL,
	}
}

// LoadConfig reads a YAML config file and returns a Config. Environment
// variables referenced as ${VAR} or $VAR in the YAML are expanded before
// parsing. Unset fields fall back to Defaults, with an OLLAMA_API_URL
// environment variable overriding the default URL. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()

	if v := os.Getenv("OLLAMA_API_URL"); v != "" {
		cfg.OllamaURL = v
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("provision: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("provision: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.BaseModel == "" {
		return fmt.Errorf("provision: config: base model is required")
	}

	if c.ModelName == "" {
		return fmt.Errorf("provision: config: model name is required")
	}

	if c.ModelfilePath == "" {
		return fmt.Errorf("provision: config: modelfile path is required")
	}

	return nil
}

// Package config builds the explicit run configuration of xcfill from the
// process environment, an optional .env file and an optional .xcfill.yaml
// file.
//
// Precedence, highest first: environment, .env, .xcfill.yaml. Command-line
// flags are applied on top by the caller.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/xcfill/langmeta"
)

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	// FileName is the default config file name.
	FileName = ".xcfill.yaml"
	// DotEnvFileName is the dotenv file read from the working directory.
	DotEnvFileName = ".env"
	// DefaultSourceLang is the language whose values are translated.
	DefaultSourceLang = "en"
	// DefaultProvider is the translation provider used when none is set.
	DefaultProvider = "google-cloud"
)

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the resolved configuration of a run.
type Config struct {
	// ProjectID is the Google Cloud project used for translation requests.
	ProjectID string `env:"GOOGLE_PROJECT_ID" yaml:"project_id,omitempty"`
	// Languages are the target language codes, in fill order.
	Languages []string `env:"LANGUAGE_CODES" envSeparator:"," yaml:"languages,omitempty"`
	// SourceLang is the language whose values are translated.
	SourceLang string `env:"XCFILL_SOURCE_LANG" yaml:"source_lang,omitempty"`
	// Provider is the translation provider ID.
	Provider string `env:"XCFILL_PROVIDER" yaml:"provider,omitempty"`
	// Model is the model name for AI providers.
	Model string `env:"XCFILL_MODEL" yaml:"model,omitempty"`
	// APIKey is never read from the YAML file.
	APIKey string `env:"XCFILL_API_KEY" yaml:"-"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `env:"XCFILL_BASE_URL" yaml:"base_url,omitempty"`
	// Timeout overrides the provider request timeout.
	Timeout time.Duration `env:"XCFILL_TIMEOUT" yaml:"timeout,omitempty"`
	// Proxy is an HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
	// Prompt overrides the AI system prompt.
	Prompt string `yaml:"prompt,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// LoadFile loads a YAML config file. Returns nil if the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Load resolves the configuration for a run in dir. configPath overrides
// the default dir/.xcfill.yaml and must exist when given.
func Load(dir, configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dir, FileName)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		if explicit {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		cfg = &Config{}
	}

	environ, err := environment(filepath.Join(dir, DotEnvFileName))
	if err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// environment merges the dotenv file at path with the process environment.
// Variables already set in the process win.
func environment(path string) (map[string]string, error) {
	merged, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		merged = map[string]string{}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	return merged, nil
}

func (c *Config) applyDefaults() {
	c.Languages = NormalizeLanguages(c.Languages)
	c.SourceLang = strings.TrimSpace(c.SourceLang)
	if c.SourceLang == "" {
		c.SourceLang = DefaultSourceLang
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	c.ProjectID = strings.TrimSpace(c.ProjectID)
}

// ---------------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------------

// NormalizeLanguages trims every code, drops empty ones and removes
// duplicates. The first occurrence wins.
func NormalizeLanguages(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	var out []string
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ParseLanguageList parses a comma-separated list such as " fr, de ,ja".
func ParseLanguageList(s string) []string {
	return NormalizeLanguages(strings.Split(s, ","))
}

// UnknownLanguages returns the configured codes that are not valid
// language tags.
func (c *Config) UnknownLanguages() []string {
	var out []string
	for _, code := range c.Languages {
		if !langmeta.Valid(code) {
			out = append(out, code)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate reports configuration that would make a run fail.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("no target languages configured (set LANGUAGE_CODES, languages in %s, or --lang)", FileName)
	}
	if c.Provider == DefaultProvider && c.ProjectID == "" {
		return fmt.Errorf("no Google Cloud project configured (set GOOGLE_PROJECT_ID, project_id in %s, or --project-id)", FileName)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile writes a starter config file. It refuses to overwrite.
func WriteFile(path string, cfg *Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return w.Flush()
}

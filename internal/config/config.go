package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const DefaultFileName = "gqlimport.yaml"

type Config struct {
	// Root is the directory import paths are derived from.
	Root    string   `yaml:"root"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	// Output is the directory resolved documents are written to.
	// Documents are printed to stdout when empty.
	Output          string   `yaml:"output,omitempty"`
	StripDirectives bool     `yaml:"strip_directives,omitempty"`
	Schema          []string `yaml:"schema,omitempty"`
	Concurrency     int      `yaml:"concurrency,omitempty"`
}

func Default() *Config {
	return &Config{
		Root:        ".",
		Include:     []string{"**/*.graphql", "**/*.gql"},
		Concurrency: 1,
	}
}

// Load reads the YAML file at filename over Default. Relative paths in the
// file are resolved against the file's directory.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	err = yaml.Unmarshal(b, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	baseDir := filepath.Dir(filename)
	cfg.Root = resolvePath(baseDir, cfg.Root)
	cfg.Output = resolvePath(baseDir, cfg.Output)
	for i, schema := range cfg.Schema {
		cfg.Schema[i] = resolvePath(baseDir, schema)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return fmt.Errorf("root is required")
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Output != "" && filepath.Clean(cfg.Output) == filepath.Clean(cfg.Root) {
		return fmt.Errorf("output must not be the root directory")
	}
	return nil
}

func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

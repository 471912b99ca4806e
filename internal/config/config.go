// Package config loads the embedded YAML configuration: the academic
// profile, portal list, ledger backend and email settings.
package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configYAML embed.FS

// Config is the full runtime configuration.
type Config struct {
	Profile  Profile       `yaml:"profile"`
	Scoring  ScoringConfig `yaml:"scoring"`
	Portals  []Portal      `yaml:"portals"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	SeedPath string        `yaml:"seed_path,omitempty"`
	Email    EmailConfig   `yaml:"email"`
	LogLevel string        `yaml:"log_level,omitempty"` // Default: info
}

// Profile describes the applicant the scanner scores against.
type Profile struct {
	Name       string   `yaml:"name"`
	Level      string   `yaml:"level"`
	Program    string   `yaml:"program"`
	University string   `yaml:"university"`
	Location   string   `yaml:"location"`
	Country    string   `yaml:"country"`
	Areas      []string `yaml:"areas,omitempty"` // Extra high-tier keywords
}

type ScoringConfig struct {
	RescoreLow bool `yaml:"rescore_low"`
}

// Portal is one source to scan. Extractor selects one of the built-in
// extraction variants; unknown or empty values fall back to the generic
// link walker.
type Portal struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Extractor string `yaml:"extractor,omitempty"` // minciencias, icetex, fulbright, univalle, generic
	Kind      string `yaml:"kind,omitempty"`      // Default opportunity kind for this portal
	Active    bool   `yaml:"active"`
}

type LedgerConfig struct {
	Backend string `yaml:"backend"` // "csv" or "postgres"
	Path    string `yaml:"path,omitempty"`
	URL     string `yaml:"url,omitempty"` // Postgres DSN, usually ${DATABASE_URL}
}

type EmailConfig struct {
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  string `yaml:"smtp_port"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// Configured reports whether the settings are complete enough to send mail.
func (e EmailConfig) Configured() bool {
	return e.SMTPHost != "" && e.Sender != "" && e.Password != "" && e.Recipient != ""
}

// Load reads the embedded config.yaml, falling back to the given path for
// local overrides. Environment variables in the YAML (e.g. ${SMTP_USER})
// are expanded before decoding.
func Load(path string) (*Config, error) {
	data, err := configYAML.ReadFile("config.yaml")
	if path != "" {
		if fileData, fileErr := os.ReadFile(path); fileErr == nil {
			data, err = fileData, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "csv"
	}
	if cfg.Ledger.Backend == "csv" && cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "data/opportunities.csv"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// ActivePortals filters the portal list down to the enabled entries.
func (c *Config) ActivePortals() []Portal {
	active := make([]Portal, 0, len(c.Portals))
	for _, p := range c.Portals {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

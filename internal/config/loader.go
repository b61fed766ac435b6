package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [Validate] when the corresponding field is zero.
const (
	DefaultMaxFollowUpsPerAnswer = 3
	DefaultSynthesisConcurrency  = 4
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values and fills in
// defaults. It returns a joined error listing all validation failures
// found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Database. The env var override lets deployments keep credentials out
	// of the config file.
	if dsn := os.Getenv("VOXTALE_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if cfg.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required (or set VOXTALE_DATABASE_DSN)"))
	}
	if cfg.Database.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("database.max_conns must not be negative, got %d", cfg.Database.MaxConns))
	}

	// Interview
	if cfg.Interview.MaxFollowUpsPerAnswer < 0 {
		errs = append(errs, fmt.Errorf("interview.max_follow_ups_per_answer must not be negative, got %d", cfg.Interview.MaxFollowUpsPerAnswer))
	}
	if cfg.Interview.MaxFollowUpsPerAnswer == 0 {
		cfg.Interview.MaxFollowUpsPerAnswer = DefaultMaxFollowUpsPerAnswer
	}
	if cfg.Interview.SynthesisConcurrency < 0 {
		errs = append(errs, fmt.Errorf("interview.synthesis_concurrency must not be negative, got %d", cfg.Interview.SynthesisConcurrency))
	}
	if cfg.Interview.SynthesisConcurrency == 0 {
		cfg.Interview.SynthesisConcurrency = DefaultSynthesisConcurrency
	}

	// Normalizer
	if cfg.Normalizer.SplitThreshold < 0 {
		errs = append(errs, fmt.Errorf("normalizer.split_threshold must not be negative, got %d", cfg.Normalizer.SplitThreshold))
	}
	if cfg.Normalizer.MinParagraphLength < 0 {
		errs = append(errs, fmt.Errorf("normalizer.min_paragraph_length must not be negative, got %d", cfg.Normalizer.MinParagraphLength))
	}

	return errors.Join(errs...)
}

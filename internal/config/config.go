// Package config provides the configuration schema and loader for the
// Voxtale interview engine.
package config

// LogLevel controls log verbosity for the Voxtale daemon.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Voxtale.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Interview  InterviewConfig  `yaml:"interview"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
}

// ServerConfig holds network and logging settings for the operational HTTP
// surface (health checks and the Prometheus /metrics endpoint).
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// DatabaseConfig holds the postgres connection settings shared by the
// outline and answer stores.
type DatabaseConfig struct {
	// DSN is the postgres connection string. The VOXTALE_DATABASE_DSN
	// environment variable overrides it when set.
	DSN string `yaml:"dsn"`

	// MaxConns caps the pgx pool size. Zero keeps the pool default.
	MaxConns int32 `yaml:"max_conns"`
}

// InterviewConfig tunes progression behaviour.
type InterviewConfig struct {
	// MaxFollowUpsPerAnswer caps the follow-up batch requested from the
	// content generator for one answered question. Default: 3.
	MaxFollowUpsPerAnswer int `yaml:"max_follow_ups_per_answer"`

	// SynthesisConcurrency bounds the parallel readiness probes issued by a
	// speech-audio refresh. Default: 4.
	SynthesisConcurrency int `yaml:"synthesis_concurrency"`
}

// NormalizerConfig tunes the transcript text cleaner.
type NormalizerConfig struct {
	// SplitThreshold is the cleaned-text length above which an answer is
	// split into several paragraphs. Zero keeps the built-in default.
	SplitThreshold int `yaml:"split_threshold"`

	// MinParagraphLength drops normalized paragraphs shorter than this many
	// characters. Zero keeps the built-in default.
	MinParagraphLength int `yaml:"min_paragraph_length"`

	// ExtraFillerWords extends the filler-removal vocabulary, for
	// interviews conducted in registers with their own disfluencies.
	ExtraFillerWords []string `yaml:"extra_filler_words"`
}

// Package config handles pipeline parameter files.
package config

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matsen/wordgraph/internal/cluster"
	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/similarity"
)

// Config holds the pipeline parameters stored in wordgraph.yml.
type Config struct {
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gte=0,lte=1"`
	MinTime   float64 `yaml:"min_time" json:"min_time" validate:"gte=0"`
	MaxTime   float64 `yaml:"max_time" json:"max_time" validate:"gte=0"`
	Period    string  `yaml:"period" json:"period" validate:"required"`

	Clusters      int `yaml:"clusters" json:"clusters" validate:"gte=1,lte=64"`
	MaxIterations int `yaml:"max_iterations" json:"max_iterations" validate:"gte=1,lte=1000"`

	// Seed makes similarity jitter and centroid choice reproducible.
	Seed         *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	PerPairDraws bool    `yaml:"per_pair_draws" json:"per_pair_draws"`

	// EmbeddingModel is recorded on snapshots only; scoring ignores it.
	EmbeddingModel string `yaml:"embedding_model,omitempty" json:"embedding_model,omitempty" validate:"omitempty,oneof=text-embedding-3-small text-embedding-3-large mistral-embed"`
	Layout         string `yaml:"layout" json:"layout" validate:"oneof=force circle grid"`
}

// ErrInvalid is returned when a config fails validation.
var ErrInvalid = errors.New("invalid config")

// ValidEmbeddingModels lists the accepted embedding_model values.
var ValidEmbeddingModels = []string{"text-embedding-3-small", "text-embedding-3-large", "mistral-embed"}

var validate = validator.New()

// Default returns the built-in parameters.
func Default() *Config {
	p := graph.DefaultParams()
	return &Config{
		Threshold:     p.Threshold,
		MinTime:       p.MinTime,
		MaxTime:       p.MaxTime,
		Period:        p.Period,
		Clusters:      cluster.DefaultK,
		MaxIterations: cluster.DefaultMaxIterations,
		Layout:        "force",
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// default values. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks value ranges. MinTime > MaxTime is allowed and simply
// selects no records.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Params returns the filter parameters for a pipeline run.
func (c *Config) Params() graph.Params {
	return graph.Params{
		Threshold: c.Threshold,
		MinTime:   c.MinTime,
		MaxTime:   c.MaxTime,
		Period:    c.Period,
	}
}

// Rand returns a source seeded from Seed, or nil when no seed is set. The
// stream argument lets callers derive independent sources from one seed.
func (c *Config) Rand(stream uint64) *rand.Rand {
	if c.Seed == nil {
		return nil
	}
	return rand.New(rand.NewPCG(*c.Seed, stream))
}

// EstimatorOptions returns the similarity options implied by the config.
func (c *Config) EstimatorOptions() []similarity.Option {
	opts := []similarity.Option{similarity.WithPerPairDraws(c.PerPairDraws)}
	if rng := c.Rand(1); rng != nil {
		opts = append(opts, similarity.WithRand(rng))
	}
	return opts
}

// ClusterOptions returns the k-means options implied by the config.
func (c *Config) ClusterOptions() cluster.Options {
	return cluster.Options{
		K:             c.Clusters,
		MaxIterations: c.MaxIterations,
		Rand:          c.Rand(2),
	}
}

// formatValidationError turns validator errors into one readable error.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := toSnake(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toSnake converts a Go field name like MaxIterations to max_iterations.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SPDX-License-Identifier: MIT

// Package config loads the tool configuration from YAML, applies
// environment overrides and validates the result.
//
// A missing file is not an error: defaults apply. Environment variables
// (GLLS_DB, GLLS_LOG_LEVEL, GLLS_LOG_FORMAT, GLLS_PARALLEL) override file values.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/propagate"
)

// Config is the full tool configuration.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Propagate PropagateConfig `yaml:"propagate"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

// EngineConfig mirrors glls.Config plus reporting thresholds.
type EngineConfig struct {
	SymmetryTol        float64 `yaml:"symmetry_tol" validate:"gte=0"`
	MaxCondition       float64 `yaml:"max_condition" validate:"gt=1"`
	PseudoInverse      bool    `yaml:"pseudo_inverse"`
	PseudoInverseRcond float64 `yaml:"pseudo_inverse_rcond" validate:"gte=0,lt=1"`
	StrictPSD          bool    `yaml:"strict_psd"`
	// OutlierThreshold flags responses with |normalized residual| above it.
	OutlierThreshold float64 `yaml:"outlier_threshold" validate:"gt=0"`
	// CalculationUncertainty adds the calculated-value variance to Cm.
	CalculationUncertainty bool `yaml:"calculation_uncertainty"`
}

// PropagateConfig mirrors propagate.Config.
type PropagateConfig struct {
	SymmetryTol float64 `yaml:"symmetry_tol" validate:"gte=0"`
}

// SweepConfig bounds the leave-one-out sweep.
type SweepConfig struct {
	Parallel int `yaml:"parallel" validate:"gte=1,lte=256"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			SymmetryTol:        matrix.DefaultEpsilon,
			MaxCondition:       matrix.DefaultMaxCondition,
			PseudoInverseRcond: matrix.DefaultRcond,
			OutlierThreshold:   3,
		},
		Propagate: PropagateConfig{SymmetryTol: matrix.DefaultEpsilon},
		Sweep:     SweepConfig{Parallel: 4},
		Store:     StoreConfig{Path: "glls.db"},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := Parse(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document does not set.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GLLS_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("GLLS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GLLS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("GLLS_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Parallel = n
		}
	}
}

// Validate checks the struct tags and the cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.GLLS().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// GLLS returns the engine configuration.
func (c Config) GLLS() glls.Config {
	return glls.Config{
		SymmetryTol:        c.Engine.SymmetryTol,
		MaxCondition:       c.Engine.MaxCondition,
		PseudoInverse:      c.Engine.PseudoInverse,
		PseudoInverseRcond: c.Engine.PseudoInverseRcond,
		StrictPSD:          c.Engine.StrictPSD,
	}
}

// Propagator returns the propagator configuration.
func (c Config) Propagator() propagate.Config {
	return propagate.Config{SymmetryTol: c.Propagate.SymmetryTol}
}

// Logger builds the slog logger described by c.Log, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(c.Log.Level)}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to slog.Level; unknown names give Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package config loads the tunable knobs of the compiler core — solver
// bounds, SMT timeouts, the optimization-level→analysis-set table, and
// declared vectorization widths — from a YAML document, the same
// library the teacher corpus uses for its own specs and manifests.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document for a compilation unit.
type Config struct {
	Solver      SolverConfig      `yaml:"solver"`
	SMT         SMTConfig         `yaml:"smt"`
	Vectorizer  VectorizerConfig  `yaml:"vectorizer"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
}

// SolverConfig tunes the unified constraint solver's worklist loop.
type SolverConfig struct {
	// MaxOuterPasses bounds the worklist fixed-point loop (§4.3.1).
	// Default 1000 per the specification.
	MaxOuterPasses int `yaml:"max_outer_passes"`
}

// SMTConfig tunes the optional SMT oracle bridge (§4.3.3).
type SMTConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// VectorizerConfig tunes loop vectorization (§4.5).
type VectorizerConfig struct {
	// Widths are the SIMD widths, in bits, the target backend declares
	// support for. Defaults to {128, 256, 512}.
	Widths []int `yaml:"widths"`
	// MinSequenceLength is the minimum run length of element-wise
	// instructions required to treat a run as vectorizable. Default 4.
	MinSequenceLength int `yaml:"min_sequence_length"`
}

// AnalysisConfig tunes per-pass resource limits.
type AnalysisConfig struct {
	DefaultTimeLimit   time.Duration `yaml:"default_time_limit"`
	DefaultMemoryLimit int64         `yaml:"default_memory_limit_bytes"`
}

// Default returns the specification's stated defaults.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{MaxOuterPasses: 1000},
		SMT: SMTConfig{
			Enabled: false,
			Timeout: 5 * time.Second,
		},
		Vectorizer: VectorizerConfig{
			Widths:            []int{128, 256, 512},
			MinSequenceLength: 4,
		},
		Analysis: AnalysisConfig{
			DefaultTimeLimit:   30 * time.Second,
			DefaultMemoryLimit: 512 * 1024 * 1024,
		},
	}
}

// Load reads a YAML configuration document from path, filling in
// specification defaults for any field left unset in the document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if cfg.Solver.MaxOuterPasses <= 0 {
		cfg.Solver.MaxOuterPasses = 1000
	}
	if len(cfg.Vectorizer.Widths) == 0 {
		cfg.Vectorizer.Widths = []int{128, 256, 512}
	}
	if cfg.Vectorizer.MinSequenceLength <= 0 {
		cfg.Vectorizer.MinSequenceLength = 4
	}
	return cfg, nil
}

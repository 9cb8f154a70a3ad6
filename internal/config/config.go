// Package config loads run configuration from YAML files, with defaults
// suitable for the bundled datasets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the full configuration for a training run. CLI flags
// override individual fields after loading.
type RunConfig struct {
	// Data
	TrainPath string `yaml:"train_path"`
	TestPath  string `yaml:"test_path"`
	Limit     int    `yaml:"limit"` // cap on rows loaded, 0 = all

	// Training
	Epochs    int     `yaml:"epochs"`
	BatchSize int     `yaml:"batch_size"`
	LR        float32 `yaml:"lr"`
	Optimizer string  `yaml:"optimizer"` // "sgd" or "adam"
	Momentum  float32 `yaml:"momentum"`  // sgd only
	Seed      int64   `yaml:"seed"`
	LogEvery  int     `yaml:"log_every"`

	// Image model
	ImageHeight int `yaml:"image_height"`
	ImageWidth  int `yaml:"image_width"`

	// Text model
	SeqLen      int    `yaml:"seq_len"`
	EmbedDim    int    `yaml:"embed_dim"`
	NumFilters  int    `yaml:"num_filters"`
	KernelSize  int    `yaml:"kernel_size"`
	MinCount    int    `yaml:"min_count"`
	MaxVocab    int    `yaml:"max_vocab"`
	VectorsPath string `yaml:"vectors_path"` // pretrained embeddings, optional
	Encoding    string `yaml:"encoding"`     // BPE encoding name, optional

	// Output
	PredictionsPath string `yaml:"predictions_path"` // optional CSV export
}

// Default returns the baseline configuration.
func Default() RunConfig {
	return RunConfig{
		Epochs:      5,
		BatchSize:   32,
		LR:          0.01,
		Optimizer:   "sgd",
		Momentum:    0.9,
		Seed:        42,
		LogEvery:    50,
		ImageHeight: 28,
		ImageWidth:  28,
		SeqLen:      128,
		EmbedDim:    100,
		NumFilters:  100,
		KernelSize:  3,
		MinCount:    2,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (RunConfig, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config: %w", err)
	}
	return config, nil
}

// Validate checks field values that have no sensible fallback.
func (c *RunConfig) Validate() error {
	if c.TrainPath == "" {
		return fmt.Errorf("config: train_path is required")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("config: epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	if c.LR <= 0 {
		return fmt.Errorf("config: lr must be positive, got %v", c.LR)
	}
	switch c.Optimizer {
	case "sgd", "adam":
	default:
		return fmt.Errorf("config: unknown optimizer %q (want sgd or adam)", c.Optimizer)
	}
	if c.VectorsPath != "" && c.Encoding != "" {
		return fmt.Errorf("config: vectors_path and encoding are mutually exclusive")
	}
	return nil
}

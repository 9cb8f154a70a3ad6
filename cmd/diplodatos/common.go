package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charly3d/diplodatos/internal/config"
	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/optim"
)

// newLogger builds the CLI logger. Verbose enables debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if !verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zapConfig.Build()
}

// registerRunFlags declares the flags shared by the training commands.
// Flags the user sets override the loaded config file.
func registerRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("config", "", "YAML config file")
	flags.String("train", "", "training CSV path (.csv or .csv.gz)")
	flags.String("test", "", "test CSV path (.csv or .csv.gz)")
	flags.Int("limit", 0, "cap on rows loaded, 0 = all")
	flags.Int("epochs", 0, "training epochs")
	flags.Int("batch-size", 0, "mini-batch size")
	flags.Float32("lr", 0, "learning rate")
	flags.String("optimizer", "", "optimizer: sgd or adam")
	flags.Int64("seed", 0, "random seed")
	flags.String("predictions", "", "write test predictions to this CSV")
	flags.Bool("verbose", false, "debug logging")
}

// loadRunConfig loads the config file named by --config and applies any
// explicitly set flags on top.
func loadRunConfig(cmd *cobra.Command) (config.RunConfig, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("train") {
		cfg.TrainPath, _ = flags.GetString("train")
	}
	if flags.Changed("test") {
		cfg.TestPath, _ = flags.GetString("test")
	}
	if flags.Changed("limit") {
		cfg.Limit, _ = flags.GetInt("limit")
	}
	if flags.Changed("epochs") {
		cfg.Epochs, _ = flags.GetInt("epochs")
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("lr") {
		cfg.LR, _ = flags.GetFloat32("lr")
	}
	if flags.Changed("optimizer") {
		cfg.Optimizer, _ = flags.GetString("optimizer")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("predictions") {
		cfg.PredictionsPath, _ = flags.GetString("predictions")
	}
	return cfg, nil
}

// newOptimizer builds the configured optimizer over params.
func newOptimizer(cfg config.RunConfig, params []*nn.Parameter) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q (want sgd or adam)", cfg.Optimizer)
	}
}

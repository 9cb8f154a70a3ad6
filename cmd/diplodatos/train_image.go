package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/dataset"
	"github.com/charly3d/diplodatos/internal/export"
	"github.com/charly3d/diplodatos/internal/metrics"
	"github.com/charly3d/diplodatos/internal/models"
	"github.com/charly3d/diplodatos/internal/trainer"
)

func newTrainImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train-image",
		Short: "Train the image CNN on a MNIST-format CSV",
		Long: `Trains a LeNet-style CNN on a CSV where each row is
"label,pix0,pix1,...". Gzip-compressed files are read transparently.`,
		RunE: runTrainImage,
	}
	registerRunFlags(cmd)
	return cmd
}

func runTrainImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Scale 8-bit pixels into [-1, 1].
	transform := dataset.Normalize(255, 0.5, 0.5)

	logger.Info("loading training data", zap.String("path", cfg.TrainPath))
	trainData, err := dataset.LoadImageCSV(cfg.TrainPath, dataset.ImageCSVConfig{
		Transform: transform,
		Limit:     cfg.Limit,
	})
	if err != nil {
		return err
	}
	numClasses := trainData.NumClasses()
	logger.Info("training data loaded",
		zap.Int("examples", trainData.Len()),
		zap.Int("features", trainData.Features()),
		zap.Int("classes", numClasses),
	)

	if trainData.Features() != cfg.ImageHeight*cfg.ImageWidth {
		return fmt.Errorf("dataset has %d features, expected %dx%d=%d",
			trainData.Features(), cfg.ImageHeight, cfg.ImageWidth, cfg.ImageHeight*cfg.ImageWidth)
	}

	var testData *dataset.ImageCSVDataset
	if cfg.TestPath != "" {
		testData, err = dataset.LoadImageCSV(cfg.TestPath, dataset.ImageCSVConfig{
			Transform: transform,
			Limit:     cfg.Limit,
		})
		if err != nil {
			return err
		}
		logger.Info("test data loaded", zap.Int("examples", testData.Len()))
	}

	backend := autodiff.New(cpu.New())
	model := models.NewImageCNN(models.ImageCNNConfig{
		Height:     cfg.ImageHeight,
		Width:      cfg.ImageWidth,
		NumClasses: numClasses,
	}, backend)

	optimizer, err := newOptimizer(cfg, model.Parameters())
	if err != nil {
		return err
	}

	collate := dataset.CollateImages(trainData.Features())
	trainLoader := dataset.NewLoader[dataset.Record](trainData, collate, dataset.LoaderConfig{
		BatchSize: cfg.BatchSize,
		Shuffle:   true,
		Seed:      cfg.Seed,
	})
	var testLoader *dataset.Loader[dataset.Record]
	if testData != nil {
		testLoader = dataset.NewLoader[dataset.Record](testData, collate, dataset.LoaderConfig{
			BatchSize: cfg.BatchSize,
		})
	}

	t := trainer.New(backend, logger, trainer.Config{
		Epochs:   cfg.Epochs,
		LogEvery: cfg.LogEvery,
	})

	var val trainer.BatchSource
	if testLoader != nil {
		val = testLoader
	}
	if _, err := t.Fit(ctx, model, optimizer, trainLoader, val); err != nil {
		return err
	}

	if testLoader == nil {
		return nil
	}

	result := t.Evaluate(model, testLoader, numClasses)
	report := metrics.NewReport(result.Confusion, nil)
	fmt.Println(report)

	if cfg.PredictionsPath != "" {
		predictions := export.Build(result.Predicted, result.Actual, nil, nil)
		if err := export.WritePredictions(cfg.PredictionsPath, predictions); err != nil {
			return err
		}
		logger.Info("predictions written", zap.String("path", cfg.PredictionsPath))
	}
	return nil
}

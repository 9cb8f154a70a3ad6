package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/config"
	"github.com/charly3d/diplodatos/internal/dataset"
	"github.com/charly3d/diplodatos/internal/export"
	"github.com/charly3d/diplodatos/internal/metrics"
	"github.com/charly3d/diplodatos/internal/models"
	"github.com/charly3d/diplodatos/internal/tensor"
	"github.com/charly3d/diplodatos/internal/text"
	"github.com/charly3d/diplodatos/internal/trainer"
)

func newTrainTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train-text",
		Short: "Train the text CNN on a labeled review CSV",
		Long: `Trains a convolutional text classifier on a CSV with "text" and
"label" columns. By default a word-level vocabulary is built from the
training texts; --encoding switches to a BPE tokenizer and --vectors
initializes the embedding from pretrained word vectors.`,
		RunE: runTrainText,
	}
	registerRunFlags(cmd)
	cmd.Flags().String("vectors", "", "pretrained word vectors file (.txt or .txt.gz)")
	cmd.Flags().String("encoding", "", "BPE encoding name, e.g. cl100k_base")
	cmd.Flags().Int("seq-len", 0, "fixed sequence length for padding/truncation")
	return cmd
}

func runTrainText(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("vectors") {
		cfg.VectorsPath, _ = flags.GetString("vectors")
	}
	if flags.Changed("encoding") {
		cfg.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("seq-len") {
		cfg.SeqLen, _ = flags.GetInt("seq-len")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	verbose, _ := flags.GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("loading training reviews", zap.String("path", cfg.TrainPath))
	trainReviews, err := dataset.LoadReviews(cfg.TrainPath)
	if err != nil {
		return err
	}
	classes := trainReviews.Classes()
	logger.Info("training reviews loaded",
		zap.Int("examples", trainReviews.Len()),
		zap.Strings("classes", classes),
	)

	encoder, pretrained, err := buildEncoder(cfg, trainReviews, logger)
	if err != nil {
		return err
	}

	trainData, err := trainReviews.Encode(encoder, classes)
	if err != nil {
		return err
	}

	var testData *dataset.ReviewDataset
	if cfg.TestPath != "" {
		testReviews, err := dataset.LoadReviews(cfg.TestPath)
		if err != nil {
			return err
		}
		testData, err = testReviews.Encode(encoder, classes)
		if err != nil {
			return err
		}
		logger.Info("test reviews loaded", zap.Int("examples", testData.Len()))
	}

	backend := autodiff.New(cpu.New())
	model := models.NewTextCNN(models.TextCNNConfig{
		VocabSize:  encoder.VocabSize(),
		EmbedDim:   cfg.EmbedDim,
		NumFilters: cfg.NumFilters,
		KernelSize: cfg.KernelSize,
		SeqLen:     cfg.SeqLen,
		NumClasses: len(classes),
		Pretrained: pretrained,
	}, backend)

	optimizer, err := newOptimizer(cfg, model.Parameters())
	if err != nil {
		return err
	}

	collate := dataset.PadCollate(cfg.SeqLen)
	trainLoader := dataset.NewLoader[dataset.TextRecord](trainData, collate, dataset.LoaderConfig{
		BatchSize: cfg.BatchSize,
		Shuffle:   true,
		Seed:      cfg.Seed,
	})
	var testLoader *dataset.Loader[dataset.TextRecord]
	if testData != nil {
		testLoader = dataset.NewLoader[dataset.TextRecord](testData, collate, dataset.LoaderConfig{
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

	result := t.Evaluate(model, testLoader, len(classes))
	report := metrics.NewReport(result.Confusion, classes)
	fmt.Println(report)

	if cfg.PredictionsPath != "" {
		texts := make([]string, testData.Len())
		for i := range texts {
			texts[i] = testData.Text(i)
		}
		predictions := export.Build(result.Predicted, result.Actual, classes, texts)
		if err := export.WritePredictions(cfg.PredictionsPath, predictions); err != nil {
			return err
		}
		logger.Info("predictions written", zap.String("path", cfg.PredictionsPath))
	}
	return nil
}

// buildEncoder picks the text encoder for the run: a BPE encoding when
// configured, otherwise a word vocabulary built from the training texts.
// When pretrained vectors are configured, the aligned embedding matrix
// is returned alongside the vocabulary encoder.
func buildEncoder(cfg config.RunConfig, reviews *dataset.Reviews, logger *zap.Logger) (text.Encoder, *tensor.Tensor, error) {
	if cfg.Encoding != "" {
		encoder, err := text.NewBPEEncoder(cfg.Encoding)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using BPE encoder",
			zap.String("encoding", cfg.Encoding),
			zap.Int("vocab_size", encoder.VocabSize()),
		)
		return encoder, nil, nil
	}

	tokenizer := text.NewWordTokenizer()
	documents := make([][]string, reviews.Len())
	for i, t := range reviews.Texts {
		documents[i] = tokenizer.Tokenize(t)
	}
	vocab := text.BuildVocabulary(documents, text.VocabularyConfig{
		MinCount: cfg.MinCount,
		MaxSize:  cfg.MaxVocab,
	})
	logger.Info("vocabulary built", zap.Int("size", vocab.Size()))
	encoder := text.NewVocabEncoder(tokenizer, vocab)

	if cfg.VectorsPath == "" {
		return encoder, nil, nil
	}

	vectors, err := text.LoadWordVectors(cfg.VectorsPath)
	if err != nil {
		return nil, nil, err
	}
	covered := 0
	for _, token := range vocab.Tokens() {
		if _, ok := vectors.Vector(token); ok {
			covered++
		}
	}
	logger.Info("pretrained vectors loaded",
		zap.String("path", cfg.VectorsPath),
		zap.Int("vectors", vectors.Len()),
		zap.Int("dim", vectors.Dim()),
		zap.Int("covered", covered),
	)
	return encoder, vectors.Matrix(vocab, cfg.Seed), nil
}

// Package trainer runs the training and evaluation loops shared by the
// image and text classifiers.
package trainer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/dataset"
	"github.com/charly3d/diplodatos/internal/metrics"
	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/optim"
	"github.com/charly3d/diplodatos/internal/tensor"
)

// BatchSource supplies collated mini-batches; each call to Batches
// yields one pass over the data. *dataset.Loader satisfies this.
type BatchSource interface {
	Batches() []dataset.Batch
	Len() int
}

// Config holds training-loop settings.
type Config struct {
	Epochs   int // Number of passes over the training data (default 5)
	LogEvery int // Batches between progress log lines (default 50)
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch     int
	TrainLoss float64
	TrainAcc  float64
	ValLoss   float64
	ValAcc    float64
}

// History collects per-epoch statistics over a full run.
type History struct {
	Epochs []EpochStats
}

// Final returns the last epoch's stats; zero value when empty.
func (h *History) Final() EpochStats {
	if len(h.Epochs) == 0 {
		return EpochStats{}
	}
	return h.Epochs[len(h.Epochs)-1]
}

// Trainer drives gradient-descent training of a model on an autodiff
// backend.
type Trainer struct {
	backend *autodiff.Backend
	logger  *zap.Logger
	config  Config
}

// New creates a trainer with defaults for unset config fields.
func New(backend *autodiff.Backend, logger *zap.Logger, config Config) *Trainer {
	if config.Epochs <= 0 {
		config.Epochs = 5
	}
	if config.LogEvery <= 0 {
		config.LogEvery = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{backend: backend, logger: logger, config: config}
}

// Fit trains model on train for the configured number of epochs,
// evaluating on val after each epoch when val is non-nil. The context
// cancels training between batches; the partial history is returned with
// the context error.
func (t *Trainer) Fit(ctx context.Context, model nn.Module, optimizer optim.Optimizer, train, val BatchSource) (*History, error) {
	tape := t.backend.Tape()
	history := &History{}

	t.logger.Info("starting training",
		zap.Int("epochs", t.config.Epochs),
		zap.Int("batches_per_epoch", train.Len()),
		zap.Float32("lr", optimizer.LR()),
	)

	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		window := metrics.NewWindow(t.config.LogEvery)
		epochLoss := 0.0
		correct, seen := 0, 0

		tape.StartRecording()
		for i, batch := range train.Batches() {
			select {
			case <-ctx.Done():
				tape.StopRecording()
				tape.Clear()
				return history, fmt.Errorf("training interrupted: %w", ctx.Err())
			default:
			}

			logits := model.Forward(batch.Inputs)
			loss := t.backend.CrossEntropy(logits, batch.Labels)

			seed := tensor.Ones(tensor.Shape{1})
			grads := tape.Backward(loss, seed, t.backend)
			optimizer.Step(grads)
			tape.Clear()

			lossValue := float64(loss.Item())
			epochLoss += lossValue * float64(batch.Size)
			correct += int(nn.Accuracy(logits, batch.Labels)*float32(batch.Size) + 0.5)
			seen += batch.Size
			window.Record(lossValue)

			if (i+1)%t.config.LogEvery == 0 {
				t.logger.Info("training progress",
					zap.Int("epoch", epoch),
					zap.Int("batch", i+1),
					zap.Float64("loss", window.Mean()),
				)
			}
		}
		tape.StopRecording()

		stats := EpochStats{
			Epoch:     epoch,
			TrainLoss: epochLoss / float64(seen),
			TrainAcc:  float64(correct) / float64(seen),
		}

		if val != nil {
			result := t.Evaluate(model, val, 0)
			stats.ValLoss = result.Loss
			stats.ValAcc = result.Accuracy
		}
		history.Epochs = append(history.Epochs, stats)

		t.logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("train_loss", stats.TrainLoss),
			zap.Float64("train_acc", stats.TrainAcc),
			zap.Float64("val_loss", stats.ValLoss),
			zap.Float64("val_acc", stats.ValAcc),
		)
	}
	return history, nil
}

// EvalResult holds evaluation metrics over one pass of a BatchSource.
type EvalResult struct {
	Loss      float64
	Accuracy  float64
	Confusion *metrics.ConfusionMatrix
	Predicted []int32
	Actual    []int32
}

// Evaluate runs model over data without recording gradients and returns
// aggregate loss, accuracy and a confusion matrix. numClasses sizes the
// confusion matrix; 0 derives it from the first batch's logits.
func (t *Trainer) Evaluate(model nn.Module, data BatchSource, numClasses int) *EvalResult {
	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	result := &EvalResult{}
	totalLoss := 0.0
	seen := 0

	for _, batch := range data.Batches() {
		logits := model.Forward(batch.Inputs)
		loss := t.backend.CrossEntropy(logits, batch.Labels)

		if result.Confusion == nil {
			if numClasses <= 0 {
				numClasses = logits.Shape()[1]
			}
			result.Confusion = metrics.NewConfusionMatrix(numClasses)
		}

		predicted := t.backend.Argmax(logits, -1).AsInt32()
		actual := batch.Labels.AsInt32()
		result.Confusion.Add(predicted, actual)
		result.Predicted = append(result.Predicted, predicted...)
		result.Actual = append(result.Actual, actual...)

		totalLoss += float64(loss.Item()) * float64(batch.Size)
		seen += batch.Size
	}

	if seen > 0 {
		result.Loss = totalLoss / float64(seen)
		result.Accuracy = result.Confusion.Accuracy()
	}
	return result
}

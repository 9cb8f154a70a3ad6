package trainer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly3d/diplodatos/internal/autodiff"
	"github.com/charly3d/diplodatos/internal/backend/cpu"
	"github.com/charly3d/diplodatos/internal/dataset"
	"github.com/charly3d/diplodatos/internal/nn"
	"github.com/charly3d/diplodatos/internal/optim"
)

// separableData builds a linearly separable two-class dataset: class 0
// sits left of the origin, class 1 right of it.
func separableData(n int) dataset.SliceDataset[dataset.Record] {
	data := make(dataset.SliceDataset[dataset.Record], n)
	for i := range data {
		x := float32(i%10)/10 + 0.5
		if i%2 == 0 {
			data[i] = dataset.Record{Features: []float32{-x, -x / 2}, Label: 0}
		} else {
			data[i] = dataset.Record{Features: []float32{x, x / 2}, Label: 1}
		}
	}
	return data
}

func newLoader(data dataset.SliceDataset[dataset.Record], shuffle bool) *dataset.Loader[dataset.Record] {
	return dataset.NewLoader[dataset.Record](data, dataset.CollateImages(2), dataset.LoaderConfig{
		BatchSize: 8,
		Shuffle:   shuffle,
		Seed:      1,
	})
}

func TestFitReducesLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential(
		nn.NewLinear(2, 8, backend),
		nn.NewReLU(backend),
		nn.NewLinear(8, 2, backend),
	)
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})

	tr := New(backend, nil, Config{Epochs: 20, LogEvery: 1000})
	data := separableData(64)

	history, err := tr.Fit(context.Background(), model, opt, newLoader(data, true), nil)
	require.NoError(t, err)
	require.Len(t, history.Epochs, 20)

	first := history.Epochs[0]
	final := history.Final()
	assert.Less(t, final.TrainLoss, first.TrainLoss)
	assert.Greater(t, final.TrainAcc, 0.95)
}

func TestFitWithValidation(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential(nn.NewLinear(2, 2, backend))
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})

	tr := New(backend, nil, Config{Epochs: 10, LogEvery: 1000})
	train := separableData(64)
	val := separableData(32)

	history, err := tr.Fit(context.Background(), model, opt, newLoader(train, true), newLoader(val, false))
	require.NoError(t, err)

	final := history.Final()
	assert.Greater(t, final.ValAcc, 0.95)
	assert.Greater(t, final.ValLoss, 0.0)
}

func TestEvaluate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential(nn.NewLinear(2, 2, backend))
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})

	tr := New(backend, nil, Config{Epochs: 15, LogEvery: 1000})
	data := separableData(64)

	_, err := tr.Fit(context.Background(), model, opt, newLoader(data, true), nil)
	require.NoError(t, err)

	result := tr.Evaluate(model, newLoader(data, false), 2)
	assert.InDelta(t, 1.0, result.Accuracy, 0.05)
	require.NotNil(t, result.Confusion)
	assert.Equal(t, 64, result.Confusion.Total())
	assert.Len(t, result.Predicted, 64)
	assert.Len(t, result.Actual, 64)

	// Without shuffling, predictions line up with dataset order.
	for i, actual := range result.Actual {
		assert.Equal(t, data[i].Label, actual)
	}
}

func TestEvaluateDoesNotRecord(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential(nn.NewLinear(2, 2, backend))

	tr := New(backend, nil, Config{})
	tr.Evaluate(model, newLoader(separableData(16), false), 2)
	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.False(t, backend.Tape().IsRecording())
}

func TestFitCancelled(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewSequential(nn.NewLinear(2, 2, backend))
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(backend, nil, Config{Epochs: 5})
	_, err := tr.Fit(ctx, model, opt, newLoader(separableData(16), false), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, backend.Tape().IsRecording())
}

func TestHistoryFinalEmpty(t *testing.T) {
	h := &History{}
	assert.Equal(t, EpochStats{}, h.Final())
}

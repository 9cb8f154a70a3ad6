package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfusionMatrixCounts(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1, 1, 0}, []int32{0, 1, 0, 0})

	assert.Equal(t, 4, m.Total())
	assert.Equal(t, 2, m.Count(0, 0)) // true 0 predicted 0
	assert.Equal(t, 1, m.Count(0, 1)) // true 0 predicted 1
	assert.Equal(t, 1, m.Count(1, 1))
	assert.Equal(t, 0, m.Count(1, 0))
	assert.Equal(t, 3, m.Support(0))
	assert.Equal(t, 1, m.Support(1))
}

func TestConfusionMatrixAccuracy(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1, 1, 0}, []int32{0, 1, 0, 0})
	assert.InDelta(t, 0.75, m.Accuracy(), 1e-9)
}

func TestConfusionMatrixPerClass(t *testing.T) {
	// true 0: 2 correct, 1 predicted as 1; true 1: 1 correct.
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1, 1, 0}, []int32{0, 1, 0, 0})

	assert.InDelta(t, 1.0, m.Precision(0), 1e-9)   // 2 / 2
	assert.InDelta(t, 2.0/3, m.Recall(0), 1e-9)    // 2 / 3
	assert.InDelta(t, 0.8, m.F1(0), 1e-9)          // 2*1*(2/3)/(1+2/3)
	assert.InDelta(t, 0.5, m.Precision(1), 1e-9)   // 1 / 2
	assert.InDelta(t, 1.0, m.Recall(1), 1e-9)      // 1 / 1
	assert.InDelta(t, 2.0/3.0, m.F1(1), 1e-9)
}

func TestConfusionMatrixEmptyClass(t *testing.T) {
	m := NewConfusionMatrix(3)
	m.Add([]int32{0}, []int32{0})

	assert.Equal(t, 0.0, m.Precision(2))
	assert.Equal(t, 0.0, m.Recall(2))
	assert.Equal(t, 0.0, m.F1(2))
}

func TestConfusionMatrixValidation(t *testing.T) {
	m := NewConfusionMatrix(2)
	assert.Panics(t, func() { m.Add([]int32{0}, []int32{0, 1}) })
	assert.Panics(t, func() { m.Add([]int32{5}, []int32{0}) })
	assert.Panics(t, func() { NewConfusionMatrix(0) })
}

func TestReportAverages(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1, 1, 0}, []int32{0, 1, 0, 0})
	r := NewReport(m, []string{"neg", "pos"})

	require.Len(t, r.Classes, 2)
	assert.Equal(t, "neg", r.Classes[0].Name)
	assert.Equal(t, 3, r.Classes[0].Support)
	assert.InDelta(t, 0.75, r.Accuracy, 1e-9)

	assert.InDelta(t, (1.0+0.5)/2, r.MacroPrecision, 1e-9)
	assert.InDelta(t, (2.0/3+1.0)/2, r.MacroRecall, 1e-9)
	assert.InDelta(t, (0.8+2.0/3)/2, r.MacroF1, 1e-9)

	// Weighted by support 3 and 1.
	assert.InDelta(t, (3*1.0+1*0.5)/4, r.WeightedPrecision, 1e-9)
	assert.InDelta(t, (3*2.0/3+1*1.0)/4, r.WeightedRecall, 1e-9)
	assert.InDelta(t, (3*0.8+1*2.0/3)/4, r.WeightedF1, 1e-9)
}

func TestReportDefaultNames(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1}, []int32{0, 1})
	r := NewReport(m, nil)
	assert.Equal(t, "0", r.Classes[0].Name)
	assert.Equal(t, "1", r.Classes[1].Name)
}

func TestReportNameCountMismatch(t *testing.T) {
	m := NewConfusionMatrix(2)
	assert.Panics(t, func() { NewReport(m, []string{"only-one"}) })
}

func TestReportString(t *testing.T) {
	m := NewConfusionMatrix(2)
	m.Add([]int32{0, 1, 1, 0}, []int32{0, 1, 0, 0})
	out := NewReport(m, []string{"negative", "positive"}).String()

	assert.Contains(t, out, "precision")
	assert.Contains(t, out, "recall")
	assert.Contains(t, out, "f1-score")
	assert.Contains(t, out, "support")
	assert.Contains(t, out, "negative")
	assert.Contains(t, out, "positive")
	assert.Contains(t, out, "accuracy")
	assert.Contains(t, out, "macro avg")
	assert.Contains(t, out, "weighted avg")
	assert.Contains(t, out, "0.7500")

	// One line per class plus header, blank lines and three summary rows.
	assert.Equal(t, 8, len(strings.Split(strings.TrimRight(out, "\n"), "\n")))
}

func TestWindow(t *testing.T) {
	w := NewWindow(3)
	assert.Equal(t, 0, w.Count())
	assert.Equal(t, 0.0, w.Mean())

	w.Record(1)
	w.Record(2)
	assert.Equal(t, 2, w.Count())
	assert.InDelta(t, 1.5, w.Mean(), 1e-9)

	w.Record(3)
	w.Record(10) // evicts the 1
	assert.Equal(t, 3, w.Count())
	assert.InDelta(t, 5.0, w.Mean(), 1e-9)

	w.Reset()
	assert.Equal(t, 0, w.Count())
}

// Package metrics implements classification evaluation: confusion
// matrices, per-class precision/recall/F1 reports and running windows
// for training-loop logging.
package metrics

import "fmt"

// ConfusionMatrix accumulates predicted-versus-true label counts for a
// fixed number of classes.
type ConfusionMatrix struct {
	numClasses int
	counts     []int // counts[true*numClasses + predicted]
}

// NewConfusionMatrix creates an empty matrix for numClasses classes.
func NewConfusionMatrix(numClasses int) *ConfusionMatrix {
	if numClasses <= 0 {
		panic(fmt.Sprintf("metrics: numClasses must be positive, got %d", numClasses))
	}
	return &ConfusionMatrix{
		numClasses: numClasses,
		counts:     make([]int, numClasses*numClasses),
	}
}

// Add records a batch of predictions against true labels. Panics when
// the slices differ in length or a label is out of range.
func (m *ConfusionMatrix) Add(predicted, actual []int32) {
	if len(predicted) != len(actual) {
		panic(fmt.Sprintf("metrics: %d predictions for %d labels", len(predicted), len(actual)))
	}
	for i := range predicted {
		p, a := int(predicted[i]), int(actual[i])
		if p < 0 || p >= m.numClasses || a < 0 || a >= m.numClasses {
			panic(fmt.Sprintf("metrics: label out of range: predicted=%d actual=%d classes=%d", p, a, m.numClasses))
		}
		m.counts[a*m.numClasses+p]++
	}
}

// Count returns how many examples with true class actual were predicted
// as predicted.
func (m *ConfusionMatrix) Count(actual, predicted int) int {
	return m.counts[actual*m.numClasses+predicted]
}

// NumClasses returns the number of classes.
func (m *ConfusionMatrix) NumClasses() int { return m.numClasses }

// Total returns the number of recorded examples.
func (m *ConfusionMatrix) Total() int {
	total := 0
	for _, c := range m.counts {
		total += c
	}
	return total
}

// Support returns the number of true examples of class c.
func (m *ConfusionMatrix) Support(c int) int {
	support := 0
	for p := 0; p < m.numClasses; p++ {
		support += m.counts[c*m.numClasses+p]
	}
	return support
}

// Accuracy returns the fraction of correct predictions, 0 when empty.
func (m *ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	correct := 0
	for c := 0; c < m.numClasses; c++ {
		correct += m.counts[c*m.numClasses+c]
	}
	return float64(correct) / float64(total)
}

// Precision returns the precision for class c: TP / (TP + FP). Classes
// never predicted get 0.
func (m *ConfusionMatrix) Precision(c int) float64 {
	predicted := 0
	for a := 0; a < m.numClasses; a++ {
		predicted += m.counts[a*m.numClasses+c]
	}
	if predicted == 0 {
		return 0
	}
	return float64(m.counts[c*m.numClasses+c]) / float64(predicted)
}

// Recall returns the recall for class c: TP / (TP + FN). Classes with no
// true examples get 0.
func (m *ConfusionMatrix) Recall(c int) float64 {
	support := m.Support(c)
	if support == 0 {
		return 0
	}
	return float64(m.counts[c*m.numClasses+c]) / float64(support)
}

// F1 returns the harmonic mean of precision and recall for class c.
func (m *ConfusionMatrix) F1(c int) float64 {
	p, r := m.Precision(c), m.Recall(c)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

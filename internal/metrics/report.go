package metrics

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// ClassMetrics holds the evaluation numbers for one class.
type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a per-class classification report with macro and weighted
// averages, in the style printed by scikit-learn's classification_report.
type Report struct {
	Classes  []ClassMetrics
	Accuracy float64
	Total    int

	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64

	WeightedPrecision float64
	WeightedRecall    float64
	WeightedF1        float64
}

// NewReport builds a report from a confusion matrix. classNames must
// either be nil (classes are named by index) or have one name per class.
func NewReport(m *ConfusionMatrix, classNames []string) *Report {
	n := m.NumClasses()
	if classNames != nil && len(classNames) != n {
		panic(fmt.Sprintf("metrics: %d class names for %d classes", len(classNames), n))
	}

	report := &Report{
		Classes:  make([]ClassMetrics, n),
		Accuracy: m.Accuracy(),
		Total:    m.Total(),
	}

	precisions := make([]float64, n)
	recalls := make([]float64, n)
	f1s := make([]float64, n)
	for c := 0; c < n; c++ {
		name := fmt.Sprintf("%d", c)
		if classNames != nil {
			name = classNames[c]
		}
		cm := ClassMetrics{
			Name:      name,
			Precision: m.Precision(c),
			Recall:    m.Recall(c),
			F1:        m.F1(c),
			Support:   m.Support(c),
		}
		report.Classes[c] = cm
		precisions[c] = cm.Precision
		recalls[c] = cm.Recall
		f1s[c] = cm.F1
	}

	report.MacroPrecision, _ = stats.Mean(precisions)
	report.MacroRecall, _ = stats.Mean(recalls)
	report.MacroF1, _ = stats.Mean(f1s)

	if report.Total > 0 {
		for c := 0; c < n; c++ {
			w := float64(report.Classes[c].Support) / float64(report.Total)
			report.WeightedPrecision += w * precisions[c]
			report.WeightedRecall += w * recalls[c]
			report.WeightedF1 += w * f1s[c]
		}
	}
	return report
}

// String formats the report as an aligned table:
//
//	              precision    recall  f1-score   support
//
//	     negative     0.9091    0.8333    0.8696        12
//	     positive     0.8462    0.9167    0.8800        12
//
//	     accuracy                         0.8750        24
//	    macro avg     0.8776    0.8750    0.8748        24
//	 weighted avg     0.8776    0.8750    0.8748        24
func (r *Report) String() string {
	nameWidth := len("weighted avg")
	for _, c := range r.Classes {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s  %9s  %9s  %8s\n\n", nameWidth, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%*s  %9.4f  %9.4f  %9.4f  %8d\n", nameWidth, c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s  %9s  %9.4f  %8d\n", nameWidth, "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%*s  %9.4f  %9.4f  %9.4f  %8d\n", nameWidth, "macro avg", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Total)
	fmt.Fprintf(&b, "%*s  %9.4f  %9.4f  %9.4f  %8d\n", nameWidth, "weighted avg", r.WeightedPrecision, r.WeightedRecall, r.WeightedF1, r.Total)
	return b.String()
}

// Package export writes model predictions to disk for offline analysis.
package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Prediction is one scored example in the output CSV.
type Prediction struct {
	Index     int    `csv:"index"`
	Text      string `csv:"text,omitempty"`
	Actual    string `csv:"actual"`
	Predicted string `csv:"predicted"`
	Correct   bool   `csv:"correct"`
}

// WritePredictions writes predictions to a CSV file at path, creating or
// truncating it.
func WritePredictions(path string, predictions []Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating predictions file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(predictions, f); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}
	return nil
}

// Build assembles prediction rows from parallel predicted/actual label
// id slices. classNames maps ids to display names; nil formats ids as
// numbers. texts supplies the optional text column and may be nil.
func Build(predicted, actual []int32, classNames []string, texts []string) []Prediction {
	name := func(id int32) string {
		if classNames != nil && int(id) < len(classNames) {
			return classNames[id]
		}
		return fmt.Sprintf("%d", id)
	}

	predictions := make([]Prediction, len(predicted))
	for i := range predicted {
		p := Prediction{
			Index:     i,
			Actual:    name(actual[i]),
			Predicted: name(predicted[i]),
			Correct:   predicted[i] == actual[i],
		}
		if texts != nil && i < len(texts) {
			p.Text = texts[i]
		}
		predictions[i] = p
	}
	return predictions
}

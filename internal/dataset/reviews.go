package dataset

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/charly3d/diplodatos/internal/text"
)

// reviewRow is the CSV schema for labeled review files. Expected header
// columns: "text" and "label".
type reviewRow struct {
	Text  string `csv:"text"`
	Label string `csv:"label"`
}

// Reviews holds raw review texts and their string labels, before any
// encoding. Loading and encoding are separate steps because the
// vocabulary is built from the raw training texts first.
type Reviews struct {
	Texts  []string
	Labels []string
}

// LoadReviews reads a labeled review CSV from path. Files ending in .gz
// are transparently decompressed.
func LoadReviews(path string) (*Reviews, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reviews CSV: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing reviews CSV: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return ReadReviews(r)
}

// ReadReviews parses a labeled review CSV from r.
func ReadReviews(r io.Reader) (*Reviews, error) {
	var rows []*reviewRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing reviews CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reviews CSV: no data rows found")
	}

	reviews := &Reviews{
		Texts:  make([]string, len(rows)),
		Labels: make([]string, len(rows)),
	}
	for i, row := range rows {
		reviews.Texts[i] = row.Text
		reviews.Labels[i] = row.Label
	}
	return reviews, nil
}

// Len returns the number of reviews.
func (r *Reviews) Len() int { return len(r.Texts) }

// Classes returns the sorted distinct labels. Sorting makes the
// label-to-id mapping stable across train and test files as long as both
// carry the same label set.
func (r *Reviews) Classes() []string {
	seen := make(map[string]bool)
	var classes []string
	for _, label := range r.Labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	return classes
}

// ReviewDataset holds encoded review texts with their class label ids.
// It satisfies Dataset[TextRecord].
type ReviewDataset struct {
	records []TextRecord
	texts   []string
	classes []string
}

// Encode encodes every review with encoder, mapping labels to ids by
// position in classes. Reviews with a label outside classes are an error.
func (r *Reviews) Encode(encoder text.Encoder, classes []string) (*ReviewDataset, error) {
	classID := make(map[string]int32, len(classes))
	for i, c := range classes {
		classID[c] = int32(i)
	}

	ds := &ReviewDataset{
		records: make([]TextRecord, len(r.Texts)),
		texts:   r.Texts,
		classes: classes,
	}
	for i, txt := range r.Texts {
		id, ok := classID[r.Labels[i]]
		if !ok {
			return nil, fmt.Errorf("reviews row %d: unknown class %q", i+1, r.Labels[i])
		}
		ds.records[i] = TextRecord{
			Tokens: encoder.Encode(txt),
			Label:  id,
		}
	}
	return ds, nil
}

// Len returns the number of reviews.
func (d *ReviewDataset) Len() int { return len(d.records) }

// At returns the encoded review at index i.
func (d *ReviewDataset) At(i int) TextRecord { return d.records[i] }

// Text returns the raw review text at index i.
func (d *ReviewDataset) Text(i int) string { return d.texts[i] }

// Classes returns the class names in label-id order.
func (d *ReviewDataset) Classes() []string { return d.classes }

// NumClasses returns the number of classes.
func (d *ReviewDataset) NumClasses() int { return len(d.classes) }

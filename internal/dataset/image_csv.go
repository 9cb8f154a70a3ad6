package dataset

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ImageCSVDataset holds images loaded from a MNIST-style CSV file where
// each row is "label,pix0,pix1,...". It satisfies Dataset[Record].
type ImageCSVDataset struct {
	records  []Record
	features int
}

// ImageCSVConfig holds configuration for LoadImageCSV.
type ImageCSVConfig struct {
	// Transform is applied to each row's pixel values at load time.
	// Nil means raw values.
	Transform Transform

	// Limit caps the number of rows loaded; 0 means all rows.
	Limit int
}

// LoadImageCSV reads an image dataset from path. Files ending in .gz are
// transparently decompressed. A header row is detected by a non-numeric
// first field and skipped.
func LoadImageCSV(path string, config ImageCSVConfig) (*ImageCSVDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image CSV: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing image CSV: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return ReadImageCSV(r, config)
}

// ReadImageCSV parses an image dataset from r. See LoadImageCSV for the
// format.
func ReadImageCSV(r io.Reader, config ImageCSVConfig) (*ImageCSVDataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	ds := &ImageCSVDataset{}
	rowNo := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("image CSV row %d: %w", rowNo+1, err)
		}
		rowNo++

		if len(row) < 2 {
			return nil, fmt.Errorf("image CSV row %d: expected label and pixels, got %d fields", rowNo, len(row))
		}

		label, err := strconv.ParseInt(row[0], 10, 32)
		if err != nil {
			if rowNo == 1 {
				continue // header
			}
			return nil, fmt.Errorf("image CSV row %d: parsing label %q: %w", rowNo, row[0], err)
		}

		features := make([]float32, len(row)-1)
		for i, field := range row[1:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("image CSV row %d: parsing pixel %d: %w", rowNo, i, err)
			}
			features[i] = float32(v)
		}

		if ds.features == 0 {
			ds.features = len(features)
		} else if len(features) != ds.features {
			return nil, fmt.Errorf("image CSV row %d: %d pixels, expected %d", rowNo, len(features), ds.features)
		}

		if config.Transform != nil {
			features = config.Transform(features)
		}
		ds.records = append(ds.records, Record{Features: features, Label: int32(label)})

		if config.Limit > 0 && len(ds.records) >= config.Limit {
			break
		}
	}
	if len(ds.records) == 0 {
		return nil, fmt.Errorf("image CSV: no data rows found")
	}
	return ds, nil
}

// Len returns the number of images.
func (d *ImageCSVDataset) Len() int { return len(d.records) }

// At returns the image at index i.
func (d *ImageCSVDataset) At(i int) Record { return d.records[i] }

// Features returns the number of pixel values per image.
func (d *ImageCSVDataset) Features() int { return d.features }

// NumClasses returns the number of distinct labels, assuming labels are
// contiguous from zero.
func (d *ImageCSVDataset) NumClasses() int {
	max := int32(-1)
	for _, rec := range d.records {
		if rec.Label > max {
			max = rec.Label
		}
	}
	return int(max) + 1
}

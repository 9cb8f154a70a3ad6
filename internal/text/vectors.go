package text

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charly3d/diplodatos/internal/tensor"
)

// WordVectors holds pretrained embeddings keyed by token.
type WordVectors struct {
	dim     int
	vectors map[string][]float32
}

// LoadWordVectors reads pretrained embeddings in the standard text
// format, one token per line:
//
//	token v1 v2 ... vD
//
// Files ending in .gz are transparently decompressed. A leading header
// line of the form "count dim" (two integer fields) is skipped. The
// dimensionality is taken from the first vector line; lines with a
// different dimension are an error.
func LoadWordVectors(path string) (*WordVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word vectors: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing word vectors: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return ReadWordVectors(r)
}

// ReadWordVectors parses word vectors from r. See LoadWordVectors for
// the format.
func ReadWordVectors(r io.Reader) (*WordVectors, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	wv := &WordVectors{vectors: make(map[string][]float32)}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		// word2vec-style "count dim" header
		if lineNo == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				if _, err := strconv.Atoi(fields[1]); err == nil {
					continue
				}
			}
		}

		if len(fields) < 2 {
			return nil, fmt.Errorf("word vectors line %d: expected token and values, got %q", lineNo, line)
		}
		token := fields[0]
		values := make([]float32, len(fields)-1)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("word vectors line %d: parsing %q: %w", lineNo, field, err)
			}
			values[i] = float32(v)
		}

		if wv.dim == 0 {
			wv.dim = len(values)
		} else if len(values) != wv.dim {
			return nil, fmt.Errorf("word vectors line %d: dimension %d, expected %d", lineNo, len(values), wv.dim)
		}
		wv.vectors[token] = values
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word vectors: %w", err)
	}
	if len(wv.vectors) == 0 {
		return nil, fmt.Errorf("word vectors: no vectors found")
	}
	return wv, nil
}

// Dim returns the embedding dimensionality.
func (wv *WordVectors) Dim() int {
	return wv.dim
}

// Len returns the number of loaded vectors.
func (wv *WordVectors) Len() int {
	return len(wv.vectors)
}

// Vector returns the vector for token and whether it was present.
func (wv *WordVectors) Vector(token string) ([]float32, bool) {
	v, ok := wv.vectors[token]
	return v, ok
}

// Matrix builds a [vocab.Size(), dim] embedding matrix aligned to the
// vocabulary's id order. The padding row is all zeros; tokens without a
// pretrained vector (the unknown token included) are initialized from
// N(0, 0.1) using the given seed.
func (wv *WordVectors) Matrix(vocab *Vocabulary, seed int64) *tensor.Tensor {
	rng := rand.New(rand.NewSource(seed))
	size := vocab.Size()
	data := make([]float32, size*wv.dim)

	for id, token := range vocab.Tokens() {
		if id == PadID {
			continue
		}
		row := data[id*wv.dim : (id+1)*wv.dim]
		if v, ok := wv.vectors[token]; ok {
			copy(row, v)
			continue
		}
		for i := range row {
			row[i] = float32(rng.NormFloat64()) * 0.1
		}
	}
	return tensor.FromFloat32(data, tensor.Shape{size, wv.dim})
}

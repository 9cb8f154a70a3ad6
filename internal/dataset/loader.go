package dataset

import "math/rand"

// Loader batches a dataset with optional shuffling, mirroring the usual
// DataLoader workflow:
//
//	loader := dataset.NewLoader(train, collate, dataset.LoaderConfig{
//	    BatchSize: 32,
//	    Shuffle:   true,
//	    Seed:      42,
//	})
//	for _, batch := range loader.Batches() {
//	    ...
//	}
type Loader[T any] struct {
	data    Dataset[T]
	collate CollateFunc[T]
	config  LoaderConfig
	rng     *rand.Rand
}

// LoaderConfig holds configuration for a Loader.
type LoaderConfig struct {
	BatchSize int   // Examples per batch (default 32)
	Shuffle   bool  // Reshuffle example order on every Batches call
	DropLast  bool  // Drop the final partial batch
	Seed      int64 // Shuffle seed, for reproducible runs
}

// NewLoader creates a loader over data using collate to assemble batches.
func NewLoader[T any](data Dataset[T], collate CollateFunc[T], config LoaderConfig) *Loader[T] {
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}
	return &Loader[T]{
		data:    data,
		collate: collate,
		config:  config,
		rng:     rand.New(rand.NewSource(config.Seed)),
	}
}

// Len returns the number of batches per pass over the dataset.
func (l *Loader[T]) Len() int {
	n := l.data.Len() / l.config.BatchSize
	if !l.config.DropLast && l.data.Len()%l.config.BatchSize != 0 {
		n++
	}
	return n
}

// Batches collates one full pass over the dataset. With Shuffle set, each
// call draws a fresh permutation from the loader's seeded generator, so
// successive epochs see different orders but whole runs stay reproducible.
func (l *Loader[T]) Batches() []Batch {
	n := l.data.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if l.config.Shuffle {
		l.rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	batches := make([]Batch, 0, l.Len())
	for start := 0; start < n; start += l.config.BatchSize {
		end := start + l.config.BatchSize
		if end > n {
			if l.config.DropLast {
				break
			}
			end = n
		}
		examples := make([]T, 0, end-start)
		for _, idx := range indices[start:end] {
			examples = append(examples, l.data.At(idx))
		}
		batches = append(batches, l.collate(examples))
	}
	return batches
}

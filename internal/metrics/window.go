package metrics

// Window keeps a fixed-size sliding window of float64 samples and
// reports their running mean. Training loops use it to smooth per-batch
// loss for logging.
type Window struct {
	samples []float64
	size    int
	next    int
	full    bool
}

// NewWindow creates a window holding up to size samples.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{samples: make([]float64, size), size: size}
}

// Record adds a sample, evicting the oldest when the window is full.
func (w *Window) Record(v float64) {
	w.samples[w.next] = v
	w.next++
	if w.next == w.size {
		w.next = 0
		w.full = true
	}
}

// Count returns the number of samples currently held.
func (w *Window) Count() int {
	if w.full {
		return w.size
	}
	return w.next
}

// Mean returns the mean of the held samples, 0 when empty.
func (w *Window) Mean() float64 {
	n := w.Count()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.samples[:n] {
		sum += v
	}
	return sum / float64(n)
}

// Reset clears the window.
func (w *Window) Reset() {
	w.next = 0
	w.full = false
}

package sim

// History keeps the most recent values up to its capacity.
type History struct {
	vals []float64
	cap  int
}

// NewHistory creates new History with capacity n and returns it.
// Non-positive n creates a History which keeps nothing.
func NewHistory(n int) *History {
	if n < 0 {
		n = 0
	}

	return &History{
		vals: make([]float64, 0, n),
		cap:  n,
	}
}

// Push appends v dropping the oldest value when History is full.
func (h *History) Push(v float64) {
	if h.cap == 0 {
		return
	}

	if len(h.vals) == h.cap {
		copy(h.vals, h.vals[1:])
		h.vals = h.vals[:h.cap-1]
	}
	h.vals = append(h.vals, v)
}

// Values returns a copy of stored values, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, len(h.vals))
	copy(out, h.vals)

	return out
}

// Len returns the number of stored values.
func (h *History) Len() int {
	return len(h.vals)
}

// Cap returns History capacity.
func (h *History) Cap() int {
	return h.cap
}

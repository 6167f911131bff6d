package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	assert := assert.New(t)

	h := NewHistory(3)
	assert.Equal(3, h.Cap())
	assert.Equal(0, h.Len())
	assert.Empty(h.Values())

	for i := 1; i <= 5; i++ {
		h.Push(float64(i))
		assert.LessOrEqual(h.Len(), 3)
	}
	assert.Equal([]float64{3, 4, 5}, h.Values())

	// values are copies
	vals := h.Values()
	vals[0] = 100
	assert.Equal([]float64{3, 4, 5}, h.Values())

	h = NewHistory(-1)
	h.Push(1)
	assert.Equal(0, h.Len())
}

package valuecell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellUpdateBumpsVersion(t *testing.T) {
	arr := []float32{1, 2, 3}
	c := New(arr)
	assert.Equal(t, 0, c.Version())

	arr[0] = 9
	c.Update(arr)
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, float32(9), c.Value()[0])
}

func TestUpdateIfChanged(t *testing.T) {
	c := New(float32(0.5))
	assert.False(t, UpdateIfChanged(c, 0.5))
	assert.Equal(t, 0, c.Version())
	assert.True(t, UpdateIfChanged(c, 1))
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, float32(1), c.Any())
}

func TestCellIDsAreUnique(t *testing.T) {
	a, b := New(1), New(1)
	assert.NotEqual(t, a.ID(), b.ID())
}

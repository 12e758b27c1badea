package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHexRoundTrip(t *testing.T) {
	c := ColorFromHex(0x22EE11)
	assert.Equal(t, uint32(0x22EE11), c.Hex())
	assert.Equal(t, "#22ee11", c.String())

	r, g, b := c.RGB8()
	assert.Equal(t, []uint8{0x22, 0xEE, 0x11}, []uint8{r, g, b})
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#ff8000", "FF8000", "0xff8000"} {
		c, err := ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, uint32(0xFF8000), c.Hex(), s)
	}
	_, err := ParseColor("#fff")
	assert.Error(t, err)
	_, err = ParseColor("#gg0000")
	assert.Error(t, err)
}

func TestColorLerp(t *testing.T) {
	mid := ColorBlack.Lerp(ColorWhite, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-6)
	assert.InDelta(t, 1, mid.A, 1e-6)
	assert.Equal(t, uint32(0x808080), mid.Hex())
}

func TestDefaultWindowConfig(t *testing.T) {
	cfg := DefaultWindowConfig()
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.True(t, cfg.VSync)
	assert.False(t, cfg.Fullscreen)
}

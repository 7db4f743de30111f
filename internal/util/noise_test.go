package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerlinNoise_SeedAndRange(t *testing.T) {
	a := NewPerlinNoise(2137)
	b := NewPerlinNoise(2137)
	assert.Equal(t, int64(2137), a.Seed())

	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.37, float64(-i)*0.53
		v := a.Noise2D(x, y)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, b.Noise2D(x, y), "одинаковый сид даёт одинаковый шум")
	}
}

package block

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromID_KnownValues(t *testing.T) {
	for _, bt := range All() {
		got, err := FromID(bt.ID())
		require.NoError(t, err)
		assert.Equal(t, bt, got)
		assert.True(t, IsValid(got))
	}
}

func TestFromID_UnknownValue(t *testing.T) {
	got, err := FromID(42)
	assert.True(t, errors.Is(err, ErrUnknownBlock), "ожидалась ErrUnknownBlock, получено %v", err)
	assert.Equal(t, Air, got, "для неизвестного ID должен возвращаться воздух")
	assert.False(t, IsValid(Type(42)))
	assert.Equal(t, "Unknown(42)", Type(42).String())
}

func TestType_Categories(t *testing.T) {
	assert.True(t, Air.IsAir())
	assert.False(t, Air.IsSolid())
	assert.False(t, Water.IsSolid())
	assert.True(t, Water.IsWater())

	for _, bt := range []Type{Stone, Dirt, Grass, Sand} {
		assert.True(t, bt.IsSolid(), "%s должен быть твёрдым", bt)
	}
}

func TestType_Color(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0.1}, Dirt.Color())
	assert.Equal(t, mgl32.Vec3{0.05, 0.15, 0.5}, Water.Color())
	assert.Equal(t, mgl32.Vec3{0.0, 0.0, 0.2}, Air.Color())
	assert.Equal(t, mgl32.Vec3{0.0, 0.0, 0.2}, Type(99).Color())
	assert.Equal(t, "Grass", Grass.String())
}

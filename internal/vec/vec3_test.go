package vec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := New(1, -2, 3)
	b := New(4, 5, -6)

	assert.Equal(t, New(5, 3, -3), a.Add(b))
	assert.Equal(t, New(-3, -7, 9), a.Sub(b))
	assert.Equal(t, New(3, -6, 9), a.Mul(3))
	assert.Equal(t, New(-1, 2, -3), a.Neg())
	assert.Equal(t, New(1, -1, 3), a.Up())
	assert.Equal(t, New(1, -3, 3), a.Down())
	assert.Equal(t, 14, a.MagnitudeSquared())
	assert.Equal(t, 9+49+81, a.DistanceSquared(b))
}

func TestVec3_FloorDivAndMod(t *testing.T) {
	const size = 20
	// Разложение должно выполняться для любых, в том числе отрицательных, координат
	for w := -65; w <= 65; w++ {
		pos := New(w, -w, w*3)
		chunk := pos.DivEuclid(size)
		local := pos.ModEuclid(size)

		assert.Equal(t, pos, chunk.Mul(size).Add(local), "разложение %s", pos)
		for _, c := range []int{local.X, local.Y, local.Z} {
			assert.GreaterOrEqual(t, c, 0)
			assert.Less(t, c, size)
		}
	}

	assert.Equal(t, -1, FloorDiv(-1, size))
	assert.Equal(t, -1, FloorDiv(-20, size))
	assert.Equal(t, -2, FloorDiv(-21, size))
	assert.Equal(t, 19, Mod(-1, size))
	assert.Equal(t, 0, Mod(-20, size))
}

func TestVec3_Permute(t *testing.T) {
	v := New(1, 2, 3)

	assert.Equal(t, v, v.Permute(0))
	assert.Equal(t, New(2, 1, 3), v.Permute(1))
	assert.Equal(t, New(1, 3, 2), v.Permute(2))

	for axis := 0; axis < 3; axis++ {
		assert.Equal(t, v, v.Permute(axis).Permute(axis), "ось %d", axis)
	}

	// Вертикальное смещение канонической грани переходит на нужную ось
	up := New(0, 1, 0)
	assert.Equal(t, New(1, 0, 0), up.Permute(1))
	assert.Equal(t, New(0, 0, 1), up.Permute(2))

	assert.Panics(t, func() { v.Permute(3) })
}

func TestVec3_ToNonNegativeTriplet(t *testing.T) {
	x, y, z, err := New(0, 7, 19).ToNonNegativeTriplet()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 7, 19}, []int{x, y, z})

	_, _, _, err = New(0, -1, 0).ToNonNegativeTriplet()
	assert.True(t, errors.Is(err, ErrNegativeCoordinate))
}

func TestNeighbors_Order(t *testing.T) {
	n := Neighbors()
	expected := [6]Vec3{
		{Y: 1}, {Y: -1}, {X: 1}, {X: -1}, {Z: 1}, {Z: -1},
	}
	assert.Equal(t, expected, n)

	// Пары граней противоположны друг другу
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, n[i].Neg(), n[i+1])
	}
}

func TestVec2_Column(t *testing.T) {
	col := New(5, 9, -3).ToVec2()
	assert.Equal(t, Vec2{X: 5, Y: -3}, col)
	assert.Equal(t, New(5, 1, -3), col.ToVec3(1))
	assert.Equal(t, 25, col.DistanceSquaredTo(Vec2{X: 2, Y: 1}))
}

func TestVec3_Equals(t *testing.T) {
	a := New(3, -1, 7)
	assert.True(t, a.Equals(New(3, -1, 7)))
	assert.False(t, a.Equals(New(3, -1, -7)))
	assert.True(t, a.Add(a.Neg()).Equals(Vec3{}))
}

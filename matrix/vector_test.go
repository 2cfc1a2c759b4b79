package matrix

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVector(rng *rand.Rand, n int) *Vector {
	v := NewVector(n)
	for i := range v.Values {
		v.Values[i] = rng.Float64()*200 - 100
	}
	return v
}

func TestDot(t *testing.T) {
	a := NewVectorFrom(1, 2, 3)
	b := NewVectorFrom(1, 0, -1)
	d, err := a.Dot(b)
	require.NoError(t, err)
	assert.Equal(t, -2.0, d)
}

func TestDotEmptyIsZero(t *testing.T) {
	d, err := NewVector(0).Dot(NewVector(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestDotCommutes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n < 10; n++ {
		a, b := randomVector(rng, n), randomVector(rng, n)
		ab, err := a.Dot(b)
		require.NoError(t, err)
		ba, err := b.Dot(a)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for n := 0; n < 10; n++ {
		a, b := randomVector(rng, n), randomVector(rng, n)
		sum, err := a.Add(b)
		require.NoError(t, err)
		back, err := sum.Sub(b)
		require.NoError(t, err)
		assert.True(t, back.Equal(a, 1e-12), "n=%d: %v != %v", n, back, a)

		c := a.Clone()
		require.NoError(t, c.AddAssign(b))
		assert.True(t, c.Equal(sum, 0))
		require.NoError(t, c.SubAssign(b))
		assert.True(t, c.Equal(a, 1e-12))
	}
}

func TestScaleAssociates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		a := randomVector(rng, 5)
		k, m := rng.Float64()*10-5, rng.Float64()*10-5
		lhs := a.Scale(k).Scale(m)
		rhs := a.Scale(k * m)
		assert.True(t, lhs.Equal(rhs, 1e-9), "%v != %v", lhs, rhs)

		c := a.Clone()
		c.ScaleAssign(k)
		c.ScaleAssign(m)
		assert.True(t, c.Equal(rhs, 1e-9))
	}
}

func TestDimensionMismatch(t *testing.T) {
	a := NewVectorFrom(1, 2, 3)
	b := NewVectorFrom(1, 2)

	_, err := a.Add(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = a.Sub(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = a.Dot(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	err = a.AddAssign(b)
	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, "add", dimErr.Op)
	assert.Equal(t, 3, dimErr.Left)
	assert.Equal(t, 2, dimErr.Right)

	require.ErrorIs(t, a.SubAssign(b), ErrDimensionMismatch)
	assert.Equal(t, []float64{1, 2, 3}, a.Values, "receiver must be untouched")
}

func TestCloneDoesNotAlias(t *testing.T) {
	a := NewVectorFrom(1, 2)
	c := a.Clone()
	c.Values[0] = 42
	assert.Equal(t, 1.0, a.Values[0])
}

func TestNorm(t *testing.T) {
	v := NewVectorFrom(3, 4)
	assert.Equal(t, 25.0, v.SquaredNorm())
	assert.Equal(t, 5.0, v.Norm())
	assert.Equal(t, 0.0, NewVector(0).Norm())
}

func TestAddScaledAssign(t *testing.T) {
	a := NewVectorFrom(1648, 297)
	require.NoError(t, a.AddScaledAssign(-8, NewVectorFrom(201, 37)))
	assert.Equal(t, []float64{40, 1}, a.Values)

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 20; i++ {
		b, c := randomVector(rng, 6), randomVector(rng, 6)
		k := rng.Float64()*10 - 5
		want, err := b.Sub(c.Scale(-k))
		require.NoError(t, err)
		got := b.Clone()
		require.NoError(t, got.AddScaledAssign(k, c))
		assert.True(t, got.Equal(want, 1e-9), "%v != %v", got, want)
	}

	err := a.AddScaledAssign(2, NewVectorFrom(1))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, []float64{40, 1}, a.Values)
}

func TestEqual(t *testing.T) {
	a := NewVectorFrom(1, 2)
	assert.True(t, a.Equal(NewVectorFrom(1.05, 2), 0.1))
	assert.False(t, a.Equal(NewVectorFrom(1.2, 2), 0.1))
	assert.False(t, a.Equal(NewVectorFrom(1, 2, 0), 1))
	assert.False(t, a.Equal(nil, 1))
}

func TestVectorString(t *testing.T) {
	assert.Equal(t, "[ 1 2.5 -3 ]", NewVectorFrom(1, 2.5, -3).String())
	assert.Equal(t, "[ ]", NewVector(0).String())

	text, csv := NewVectorFrom(1, 2).ToStrings("v", "%4.1f")
	assert.Contains(t, text, "[000]  1.0")
	assert.Contains(t, text, "[001]  2.0")
	assert.Equal(t, "1,2", csv)
}

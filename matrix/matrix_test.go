package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixFromVectors(t *testing.T) {
	m, err := NewMatrixFromVectors([]*Vector{NewVectorFrom(1, 2), NewVectorFrom(3, 4)})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, m.Values)

	_, err = NewMatrixFromVectors([]*Vector{NewVectorFrom(1, 2), NewVectorFrom(3)})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDet(t *testing.T) {
	m, err := NewMatrixFromVectors([]*Vector{NewVectorFrom(201, 37), NewVectorFrom(1648, 297)})
	require.NoError(t, err)
	det, err := m.Det()
	require.NoError(t, err)
	assert.InDelta(t, -1279.0, det, 1e-9)
	assert.InDelta(t, 1279.0, m.Volume(), 1e-9)

	_, err = NewMatrix(2, 3).Det()
	require.ErrorIs(t, err, ErrNotSquare)
}

func TestGramAndVolume(t *testing.T) {
	m, err := NewMatrixFromVectors([]*Vector{NewVectorFrom(1, 0, 0), NewVectorFrom(1, 2, 0)})
	require.NoError(t, err)
	g := m.Gram()
	assert.Equal(t, 2, g.Rows)
	assert.InDelta(t, 1.0, g.Values[0][0], 1e-12)
	assert.InDelta(t, 1.0, g.Values[0][1], 1e-12)
	assert.InDelta(t, 5.0, g.Values[1][1], 1e-12)
	assert.InDelta(t, 2.0, m.Volume(), 1e-12)

	assert.Equal(t, 1.0, NewMatrix(0, 0).Volume())
}

func TestRowsRoundTrip(t *testing.T) {
	m := NewMatrix(2, 2)
	m.SetRow(1, NewVectorFrom(5, 6))
	row := m.GetRow(1)
	assert.Equal(t, []float64{5, 6}, row.Values)
	row.Values[0] = 0
	assert.Equal(t, 5.0, m.Values[1][0])

	text, rows := m.ToStrings("basis", "%4.0f")
	assert.Contains(t, text, "[001]    5    6")
	assert.Equal(t, "[ 0 0 ]\n[ 5 6 ]", rows)
}

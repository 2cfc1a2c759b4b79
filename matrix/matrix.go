package matrix

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const MatrixLine = "------------------------------------------------------------------"

// ErrNotSquare is returned by operations defined only for square matrices.
var ErrNotSquare = errors.New("matrix is not square")

// Matrix is a dense row-major matrix. A lattice basis is stored one basis
// vector per row.
type Matrix struct {
	Rows, Cols int
	Values     [][]float64
}

func NewMatrix(rows, cols int) *Matrix {
	values := make([][]float64, rows)
	for i := range values {
		values[i] = make([]float64, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Values: values}
}

// NewMatrixFromVectors copies vs into a matrix, one vector per row. All
// vectors must share a length.
func NewMatrixFromVectors(vs []*Vector) (*Matrix, error) {
	if len(vs) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := vs[0].Length
	m := NewMatrix(len(vs), cols)
	for i, v := range vs {
		if v.Length != cols {
			return nil, fmt.Errorf("row %d: %w", i, &DimensionError{Op: "matrix", Left: cols, Right: v.Length})
		}
		m.SetRow(i, v)
	}
	return m, nil
}

// Dense copies m into a gonum dense matrix. m must be non-empty.
func (m *Matrix) Dense() *mat.Dense {
	a := mat.NewDense(m.Rows, m.Cols, nil)
	for i := 0; i < m.Rows; i++ {
		a.SetRow(i, m.Values[i])
	}
	return a
}

func fromDense(d mat.Matrix) *Matrix {
	r, c := d.Dims()
	m := NewMatrix(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Values[i][j] = d.At(i, j)
		}
	}
	return m
}

// Gram returns m * m^T, the matrix of pairwise row inner products.
func (m *Matrix) Gram() *Matrix {
	if m.Rows == 0 || m.Cols == 0 {
		return NewMatrix(m.Rows, m.Rows)
	}
	a := m.Dense()
	var g mat.Dense
	g.Mul(a, a.T())
	return fromDense(&g)
}

// Det returns the determinant of a square matrix.
func (m *Matrix) Det() (float64, error) {
	if m.Rows != m.Cols {
		return 0, fmt.Errorf("det %dx%d: %w", m.Rows, m.Cols, ErrNotSquare)
	}
	if m.Rows == 0 {
		return 1, nil
	}
	return mat.Det(m.Dense()), nil
}

// Volume returns sqrt(det(m * m^T)), the covolume of the lattice spanned by
// the rows of m. Rounding can push the Gram determinant of a nearly
// dependent basis slightly negative; that is clamped to 0.
func (m *Matrix) Volume() float64 {
	if m.Rows == 0 {
		return 1
	}
	if m.Cols == 0 {
		return 0
	}
	if m.Rows == m.Cols {
		return math.Abs(mat.Det(m.Dense()))
	}
	g := m.Gram()
	det := mat.Det(g.Dense())
	if det < 0 {
		return 0
	}
	return math.Sqrt(det)
}

func (m *Matrix) GetRow(i int) *Vector {
	v := NewVector(m.Cols)
	copy(v.Values, m.Values[i])
	return v
}

func (m *Matrix) SetRow(i int, v *Vector) {
	copy(m.Values[i], v.Values)
}

func (m *Matrix) ToStrings(title, format string) (string, string) {
	sb := &strings.Builder{}
	sb.WriteString(MatrixLine + "\n")
	sb.WriteString(title + "\n")
	fmtStr := "%12.4f"
	if format != "" {
		fmtStr = format
	}
	rows := make([]string, 0, m.Rows)
	for i := range m.Values {
		fmt.Fprintf(sb, "[%03d]", i)
		for j := range m.Values[i] {
			fmt.Fprintf(sb, " "+fmtStr, m.Values[i][j])
		}
		sb.WriteString("\n")
		rows = append(rows, m.GetRow(i).String())
	}
	sb.WriteString(MatrixLine)
	return sb.String(), strings.Join(rows, "\n")
}

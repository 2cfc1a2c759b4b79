package matrix

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned (wrapped in a *DimensionError) by every
// pairwise operation whose operands have different lengths.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionError describes which operation received unequal-length operands.
type DimensionError struct {
	Op          string
	Left, Right int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s (%d != %d)", e.Op, ErrDimensionMismatch, e.Left, e.Right)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// Vector is a dense length-N vector of float64 values.
type Vector struct {
	Length int
	Values []float64
}

// NewVector allocates a vector of the given length initialized with zeros.
func NewVector(length int) *Vector {
	return &Vector{Length: length, Values: make([]float64, length)}
}

// NewVectorFrom allocates a vector holding a copy of values.
func NewVectorFrom(values ...float64) *Vector {
	v := NewVector(len(values))
	copy(v.Values, values)
	return v
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() *Vector {
	return NewVectorFrom(v.Values...)
}

func (v *Vector) check(op string, other *Vector) error {
	if v.Length != other.Length {
		return &DimensionError{Op: op, Left: v.Length, Right: other.Length}
	}
	return nil
}

// Add returns v + other (element-wise sum).
func (v *Vector) Add(other *Vector) (*Vector, error) {
	if err := v.check("add", other); err != nil {
		return nil, err
	}
	result := NewVector(v.Length)
	floats.AddTo(result.Values, v.Values, other.Values)
	return result, nil
}

// AddAssign adds other into v in place. v is left untouched on error.
func (v *Vector) AddAssign(other *Vector) error {
	if err := v.check("add", other); err != nil {
		return err
	}
	floats.Add(v.Values, other.Values)
	return nil
}

// AddScaledAssign performs v += alpha * other in place. v is left untouched
// on error.
func (v *Vector) AddScaledAssign(alpha float64, other *Vector) error {
	if err := v.check("axpy", other); err != nil {
		return err
	}
	floats.AddScaled(v.Values, alpha, other.Values)
	return nil
}

// Sub returns v - other (element-wise subtraction).
func (v *Vector) Sub(other *Vector) (*Vector, error) {
	if err := v.check("sub", other); err != nil {
		return nil, err
	}
	result := NewVector(v.Length)
	floats.SubTo(result.Values, v.Values, other.Values)
	return result, nil
}

// SubAssign subtracts other from v in place. v is left untouched on error.
func (v *Vector) SubAssign(other *Vector) error {
	if err := v.check("sub", other); err != nil {
		return err
	}
	floats.Sub(v.Values, other.Values)
	return nil
}

// Scale returns k * v.
func (v *Vector) Scale(k float64) *Vector {
	result := NewVector(v.Length)
	floats.ScaleTo(result.Values, k, v.Values)
	return result
}

// ScaleAssign multiplies every component of v by k.
func (v *Vector) ScaleAssign(k float64) {
	floats.Scale(k, v.Values)
}

// Dot returns the inner product of v and other. The inner product of two
// empty vectors is 0.
func (v *Vector) Dot(other *Vector) (float64, error) {
	if err := v.check("dot", other); err != nil {
		return 0, err
	}
	return floats.Dot(v.Values, other.Values), nil
}

// SquaredNorm returns <v, v>.
func (v *Vector) SquaredNorm() float64 {
	return floats.Dot(v.Values, v.Values)
}

// Norm returns the Euclidean norm of v.
func (v *Vector) Norm() float64 {
	return floats.Norm(v.Values, 2)
}

// Equal reports whether v and other have the same length and every pair of
// components differs by at most tol.
func (v *Vector) Equal(other *Vector, tol float64) bool {
	if other == nil {
		return false
	}
	return floats.EqualFunc(v.Values, other.Values, func(a, b float64) bool {
		return math.Abs(a-b) <= tol
	})
}

// String renders v as "[ v0 v1 ... ]".
func (v *Vector) String() string {
	sb := &strings.Builder{}
	sb.WriteString("[ ")
	for _, val := range v.Values {
		sb.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
		sb.WriteByte(' ')
	}
	sb.WriteByte(']')
	return sb.String()
}

// ToStrings formats the vector for display/logging, one component per line
// between MatrixLine separators.
//
// The second string is a single comma-separated line suitable for appending
// to a CSV-ish log.
func (v *Vector) ToStrings(title, format string) (string, string) {
	sb := &strings.Builder{}
	sb.WriteString(MatrixLine + "\n")
	sb.WriteString(title + "\n")
	fmtStr := "%10.4f"
	if format != "" {
		fmtStr = format
	}
	csv := make([]string, len(v.Values))
	for i, val := range v.Values {
		fmt.Fprintf(sb, "[%03d] "+fmtStr+"\n", i, val)
		csv[i] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	sb.WriteString(MatrixLine)
	return sb.String(), strings.Join(csv, ",")
}

// Package lattice implements basis reduction for Euclidean lattices:
// Gram-Schmidt orthogonalization, size reduction and the
// Lenstra-Lenstra-Lovász (LLL) algorithm.
//
// A Lattice owns its basis together with the derived Gram-Schmidt basis and
// the lower-triangular mu coefficient table. Only whole-lattice operations
// are exported, and each one commits all three structures together, so a
// caller never observes derived data that is stale relative to the basis.
//
// A Lattice is not safe for concurrent use.
package lattice

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CK6170/lll-go/matrix"
)

// ErrDimensionMismatch is returned by New when basis vectors differ in
// length.
var ErrDimensionMismatch = matrix.ErrDimensionMismatch

// SwapEvent is passed to the swap hook after every basis swap performed by
// LLL.
type SwapEvent struct {
	// Index is the position k whose vector moved to k-1.
	Index int
	// Swaps is the number of swaps performed so far in this LLL call.
	Swaps int
	// Basis is a copy of the basis right after the swap.
	Basis []*matrix.Vector
}

// Stats summarizes the last LLL call.
type Stats struct {
	Iterations int `json:"iterations"`
	Swaps      int `json:"swaps"`
}

// Option configures a Lattice.
type Option func(*Lattice)

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Lattice) { l.log = log }
}

// WithMaxSwaps bounds the number of swaps a single LLL call may perform.
// Zero means unlimited. Front ends use DefaultMaxSwaps. When the bound is hit LLL returns ErrSwapLimit and
// keeps the progress made so far.
func WithMaxSwaps(n int) Option {
	return func(l *Lattice) { l.maxSwaps = n }
}

// WithSwapHook registers fn to be called after every LLL swap.
func WithSwapHook(fn func(SwapEvent)) Option {
	return func(l *Lattice) { l.onSwap = fn }
}

// state holds the three co-indexed structures.
//
// mu[i] has i+1 entries; mu[i][j] = <b_i, b*_j> / <b*_j, b*_j> for j <= i.
type state struct {
	basis []*matrix.Vector
	orth  []*matrix.Vector
	mu    [][]float64
}

func cloneVectors(vs []*matrix.Vector) []*matrix.Vector {
	out := make([]*matrix.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

func (s *state) clone() *state {
	mu := make([][]float64, len(s.mu))
	for i := range s.mu {
		mu[i] = append([]float64(nil), s.mu[i]...)
	}
	return &state{basis: cloneVectors(s.basis), orth: cloneVectors(s.orth), mu: mu}
}

func emptyMu(n int) [][]float64 {
	mu := make([][]float64, n)
	for i := range mu {
		mu[i] = make([]float64, i+1)
	}
	return mu
}

func (s *state) dim() int { return len(s.basis) }

func (s *state) computeMu(i, j int) error {
	num, err := s.basis[i].Dot(s.orth[j])
	if err != nil {
		return err
	}
	s.mu[i][j] = num / s.orth[j].SquaredNorm()
	return nil
}

// gramSchmidtFrom recomputes b*_i and mu[i][*] for every i >= start. Rows
// below start must already be consistent with the basis.
func (s *state) gramSchmidtFrom(start int) error {
	for i := start; i < s.dim(); i++ {
		s.orth[i] = s.basis[i].Clone()
		for j := 0; j < i; j++ {
			if err := s.computeMu(i, j); err != nil {
				return err
			}
			if err := s.orth[i].AddScaledAssign(-s.mu[i][j], s.orth[j]); err != nil {
				return err
			}
		}
		if err := s.computeMu(i, i); err != nil {
			return err
		}
	}
	return nil
}

// Lattice is a Euclidean lattice given by an ordered basis.
type Lattice struct {
	s *state

	log      zerolog.Logger
	maxSwaps int
	onSwap   func(SwapEvent)
	stats    Stats
}

// New builds a lattice from basis and orthogonalizes it. The vectors are
// copied; later changes to basis do not affect the lattice.
func New(basis []*matrix.Vector, opts ...Option) (*Lattice, error) {
	for i, v := range basis {
		if v == nil {
			return nil, fmt.Errorf("lattice: basis vector %d is nil", i)
		}
		if v.Length != basis[0].Length {
			return nil, fmt.Errorf("lattice: basis vector %d: %w",
				i, &matrix.DimensionError{Op: "new", Left: basis[0].Length, Right: v.Length})
		}
	}
	l := &Lattice{
		s: &state{
			basis: cloneVectors(basis),
			orth:  cloneVectors(basis),
			mu:    emptyMu(len(basis)),
		},
		log: zerolog.Nop(),
	}
	l.Apply(opts...)
	if err := l.s.gramSchmidtFrom(0); err != nil {
		return nil, fmt.Errorf("lattice: %w", err)
	}
	return l, nil
}

// Apply reconfigures an existing lattice.
func (l *Lattice) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(l)
	}
}

// NewFromRows is New for a basis given as plain rows.
func NewFromRows(rows [][]float64, opts ...Option) (*Lattice, error) {
	basis := make([]*matrix.Vector, len(rows))
	for i, r := range rows {
		basis[i] = matrix.NewVectorFrom(r...)
	}
	return New(basis, opts...)
}

// Dim returns the number of basis vectors.
func (l *Lattice) Dim() int { return l.s.dim() }

// AmbientDim returns the length of each basis vector, or 0 for an empty
// basis.
func (l *Lattice) AmbientDim() int {
	if l.Dim() == 0 {
		return 0
	}
	return l.s.basis[0].Length
}

// Basis returns a copy of the current basis.
func (l *Lattice) Basis() []*matrix.Vector { return cloneVectors(l.s.basis) }

// Rows returns the current basis as plain rows.
func (l *Lattice) Rows() [][]float64 {
	rows := make([][]float64, l.Dim())
	for i, v := range l.s.basis {
		rows[i] = append([]float64(nil), v.Values...)
	}
	return rows
}

// Stats returns counters from the last LLL call.
func (l *Lattice) Stats() Stats { return l.stats }

// Volume returns the covolume sqrt(det(B B^T)) of the current basis.
func (l *Lattice) Volume() (float64, error) {
	m, err := matrix.NewMatrixFromVectors(l.s.basis)
	if err != nil {
		return 0, err
	}
	return m.Volume(), nil
}

// String renders the basis, one vector per line.
func (l *Lattice) String() string {
	sb := &strings.Builder{}
	sb.WriteString("B :")
	for _, v := range l.s.basis {
		sb.WriteString("\n")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// GramSchmidt recomputes the orthogonal basis and every mu coefficient from
// the current basis.
func (l *Lattice) GramSchmidt() error {
	s := l.s.clone()
	if err := s.gramSchmidtFrom(0); err != nil {
		return fmt.Errorf("gram-schmidt: %w", err)
	}
	l.s = s
	return nil
}

// SizeReduce subtracts round(mu[i][j]) * b_j from b_i for every j < i, using
// the coefficients as they stood before the pass. The Gram-Schmidt data is
// recomputed once the pass completes.
//
// A single pass does not guarantee |mu[i][j]| <= 0.5: each subtraction
// changes coefficients the pass has already consumed. LLL performs a
// converging size reduction.
//
// A degenerate basis is rejected with ErrDegenerateBasis before anything is
// touched.
func (l *Lattice) SizeReduce() error {
	if i := l.s.degenerate(0); i >= 0 {
		return fmt.Errorf("size-reduce: b*_%d: %w", i, ErrDegenerateBasis)
	}
	s := l.s.clone()
	for i := 0; i < s.dim(); i++ {
		for j := 0; j < i; j++ {
			if err := s.basis[i].AddScaledAssign(-round(s.mu[i][j]), s.basis[j]); err != nil {
				return fmt.Errorf("size-reduce: %w", err)
			}
		}
	}
	if err := s.gramSchmidtFrom(0); err != nil {
		return fmt.Errorf("size-reduce: %w", err)
	}
	l.s = s
	return nil
}

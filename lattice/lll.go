package lattice

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDelta is returned by LLL when delta is outside (0.25, 1].
	ErrInvalidDelta = errors.New("delta must satisfy 0.25 < delta <= 1")
	// ErrSwapLimit is returned by LLL when the WithMaxSwaps bound is reached.
	ErrSwapLimit = errors.New("lll swap limit reached")
	// ErrDegenerateBasis is returned when a Gram-Schmidt vector vanishes or
	// overflows, which happens for linearly dependent bases.
	ErrDegenerateBasis = errors.New("basis is degenerate (linearly dependent)")
)

// DeltaError reports a rejected LLL parameter.
type DeltaError struct {
	Delta float64
}

func (e *DeltaError) Error() string {
	return fmt.Sprintf("lll: delta %g: %s", e.Delta, ErrInvalidDelta)
}

func (e *DeltaError) Unwrap() error { return ErrInvalidDelta }

const (
	// DefaultDelta is the customary Lovász parameter.
	DefaultDelta = 0.75

	// DefaultMaxSwaps is the swap bound applied by the command line tool and
	// the server.
	DefaultMaxSwaps = 100000
)

// ValidDelta reports whether delta is an acceptable LLL parameter.
func ValidDelta(delta float64) bool {
	return delta > 0.25 && delta <= 1
}

// round is round-half-away-from-zero.
func round(x float64) float64 { return math.Round(x) }

// lovasz reports whether <b*_k, b*_k> >= (delta - mu[k][k-1]^2) <b*_{k-1}, b*_{k-1}>.
func (s *state) lovasz(k int, delta float64) bool {
	p1 := s.orth[k].SquaredNorm()
	p2 := (delta - s.mu[k][k-1]*s.mu[k][k-1]) * s.orth[k-1].SquaredNorm()
	return p1 >= p2
}

// reduceVector size-reduces b_k against b_{k-1}, ..., b_0 and updates row k
// of mu incrementally. Walking i downwards with the full row update leaves
// |mu[k][i]| <= 0.5 for every i < k.
func (s *state) reduceVector(k int) error {
	for i := k - 1; i >= 0; i-- {
		r := round(s.mu[k][i])
		if r == 0 {
			continue
		}
		if err := s.basis[k].AddScaledAssign(-r, s.basis[i]); err != nil {
			return err
		}
		for j := 0; j < i; j++ {
			s.mu[k][j] -= r * s.mu[i][j]
		}
		s.mu[k][i] -= r * s.mu[i][i]
	}
	return nil
}

func (s *state) swap(k int) {
	s.basis[k-1], s.basis[k] = s.basis[k], s.basis[k-1]
}

// LLL reduces the basis in place with Lovász parameter delta.
//
// An invalid delta or a degenerate basis is rejected before anything is
// touched. If the basis degenerates during the run, LLL returns
// ErrDegenerateBasis and the lattice keeps its previous state. In floating
// point the loop is not guaranteed to terminate on adversarial input; use
// WithMaxSwaps to bound it.
func (l *Lattice) LLL(delta float64) error {
	if !ValidDelta(delta) {
		return &DeltaError{Delta: delta}
	}
	if i := l.s.degenerate(0); i >= 0 {
		return fmt.Errorf("lll: b*_%d: %w", i, ErrDegenerateBasis)
	}

	s := l.s.clone()
	stats := Stats{}
	var runErr error

	k := 1
	for k < s.dim() {
		stats.Iterations++
		if err := s.reduceVector(k); err != nil {
			return fmt.Errorf("lll: %w", err)
		}
		if s.lovasz(k, delta) {
			k++
			continue
		}
		if l.maxSwaps > 0 && stats.Swaps >= l.maxSwaps {
			runErr = fmt.Errorf("lll: %d swaps at k=%d: %w", stats.Swaps, k, ErrSwapLimit)
			break
		}
		s.swap(k)
		if err := s.gramSchmidtFrom(k - 1); err != nil {
			return fmt.Errorf("lll: %w", err)
		}
		if i := s.degenerate(k - 1); i >= 0 {
			return fmt.Errorf("lll: b*_%d after %d swaps: %w", i, stats.Swaps, ErrDegenerateBasis)
		}
		stats.Swaps++
		l.log.Debug().Int("k", k).Int("swaps", stats.Swaps).Msg("lll swap")
		if l.onSwap != nil {
			l.onSwap(SwapEvent{Index: k, Swaps: stats.Swaps, Basis: cloneVectors(s.basis)})
		}
		k = max(k-1, 1)
	}

	// Drop the rounding drift accumulated by the incremental mu updates.
	if err := s.gramSchmidtFrom(0); err != nil {
		return fmt.Errorf("lll: %w", err)
	}
	l.s = s
	l.stats = stats
	l.log.Debug().
		Float64("delta", delta).
		Int("n", s.dim()).
		Int("iterations", stats.Iterations).
		Int("swaps", stats.Swaps).
		Bool("complete", runErr == nil).
		Msg("lll finished")
	return runErr
}

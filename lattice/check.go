package lattice

import "math"

// Tolerances applied by the reducedness predicates to absorb float64
// rounding in the recomputed Gram-Schmidt data.
const (
	SizeTolerance   = 1e-6
	LovaszTolerance = 1e-9
)

// degenerate returns the first index i >= start whose Gram-Schmidt vector
// is zero or not finite, or whose mu row is not finite. It returns -1 when
// every row is usable.
func (s *state) degenerate(start int) int {
	for i := start; i < s.dim(); i++ {
		n := s.orth[i].SquaredNorm()
		if !(n > 0) || math.IsInf(n, 1) {
			return i
		}
		for _, m := range s.mu[i] {
			if math.IsNaN(m) || math.IsInf(m, 0) {
				return i
			}
		}
	}
	return -1
}

// IsDegenerate reports whether the basis is linearly dependent (or so badly
// scaled that its Gram-Schmidt data is not finite). SizeReduce and LLL
// refuse such a basis.
func (l *Lattice) IsDegenerate() bool { return l.s.degenerate(0) >= 0 }

// IsSizeReduced reports whether |mu[i][j]| <= 0.5 for every j < i.
func (l *Lattice) IsSizeReduced() bool {
	for i := 1; i < l.Dim(); i++ {
		for j := 0; j < i; j++ {
			if !(math.Abs(l.s.mu[i][j]) <= 0.5+SizeTolerance) {
				return false
			}
		}
	}
	return true
}

// LovaszHolds reports whether the Lovász condition with parameter delta
// holds at every adjacent pair k-1, k.
func (l *Lattice) LovaszHolds(delta float64) bool {
	s := l.s
	for k := 1; k < s.dim(); k++ {
		p1 := s.orth[k].SquaredNorm()
		p2 := (delta - s.mu[k][k-1]*s.mu[k][k-1]) * s.orth[k-1].SquaredNorm()
		if !(p1 >= p2-LovaszTolerance*math.Abs(p2)) {
			return false
		}
	}
	return true
}

// IsLLLReduced reports whether the basis is size-reduced and satisfies the
// Lovász condition for delta.
func (l *Lattice) IsLLLReduced(delta float64) bool {
	return l.IsSizeReduced() && l.LovaszHolds(delta)
}

// IsOrthogonal reports whether the Gram-Schmidt vectors are pairwise
// orthogonal, relative to their norms, within tol.
func (l *Lattice) IsOrthogonal(tol float64) bool {
	s := l.s
	for i := 0; i < s.dim(); i++ {
		for j := 0; j < i; j++ {
			d, err := s.orth[i].Dot(s.orth[j])
			if err != nil {
				return false
			}
			scale := s.orth[i].Norm() * s.orth[j].Norm()
			if math.Abs(d) > tol*math.Max(scale, 1) {
				return false
			}
		}
	}
	return true
}

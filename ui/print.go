package ui

import (
	"github.com/CK6170/lll-go/lattice"
	"github.com/CK6170/lll-go/matrix"
)

// PrintBasis prints basis between separator lines, one vector per row.
// Bases with more than 12 vectors are trimmed.
func PrintBasis(title string, basis []*matrix.Vector) {
	Printf("%s\n", matrix.MatrixLine)
	colorf("\033[96m", "%s (%d)\n", title, len(basis))
	max := len(basis)
	if max > 12 {
		max = 12
	}
	for i := 0; i < max; i++ {
		Printf("[%03d] %s\n", i, basis[i])
	}
	if len(basis) > max {
		Printf("...\n")
	}
	Printf("%s\n", matrix.MatrixLine)
}

// PrintLattice prints the lattice in its textual form followed by its
// covolume, and its determinant for a full-rank square basis.
func PrintLattice(l *lattice.Lattice) {
	Printf("%s\n", l)
	if vol, err := l.Volume(); err == nil {
		Printf("covolume: %.10g\n", vol)
	}
	m, err := matrix.NewMatrixFromVectors(l.Basis())
	if err != nil || m.Rows == 0 {
		return
	}
	if det, err := m.Det(); err == nil {
		Printf("det: %.10g\n", det)
	}
}

// PrintStats prints LLL counters and whether the result is LLL-reduced.
func PrintStats(l *lattice.Lattice, delta float64) {
	st := l.Stats()
	Printf("iterations: %d  swaps: %d\n", st.Iterations, st.Swaps)
	if l.IsLLLReduced(delta) {
		Greenf("LLL-reduced (delta=%g)\n", delta)
	} else {
		Warningf("NOT LLL-reduced (delta=%g)\n", delta)
	}
}

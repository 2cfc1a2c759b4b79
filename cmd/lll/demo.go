package main

import (
	"github.com/spf13/cobra"

	"github.com/CK6170/lll-go/lattice"
	"github.com/CK6170/lll-go/matrix"
	"github.com/CK6170/lll-go/ui"
)

func demoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Vector arithmetic and a classic two-dimensional reduction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := matrix.NewVectorFrom(-3.4, 2.1, 0.2)
			v := matrix.NewVectorFrom(1, 2, 3)
			if err := u.AddAssign(v); err != nil {
				return err
			}
			w, err := u.Add(v)
			if err != nil {
				return err
			}
			dot, err := u.Dot(v)
			if err != nil {
				return err
			}
			ui.Printf("  %s\n", u)
			ui.Printf("+ %s\n", v)
			ui.Printf("= %s\n", w)
			ui.Printf("u.v = %g\n", dot)
			text, csv := w.ToStrings("u + v", "")
			ui.Printf("%s\n%s\n", text, csv)

			l, err := lattice.NewFromRows([][]float64{{201, 37}, {1648, 297}}, lattice.WithLogger(a.log))
			if err != nil {
				return err
			}
			ui.PrintBasis("input", l.Basis())
			if err := l.LLL(lattice.DefaultDelta); err != nil {
				return err
			}
			ui.PrintLattice(l)
			ui.PrintStats(l, lattice.DefaultDelta)
			return nil
		},
	}
}

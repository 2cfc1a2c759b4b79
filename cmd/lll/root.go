package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CK6170/lll-go/file"
	"github.com/CK6170/lll-go/lattice"
	"github.com/CK6170/lll-go/matrix"
	"github.com/CK6170/lll-go/models"
	"github.com/CK6170/lll-go/ui"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg *models.CONFIG
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "lll",
		Short:        "Lattice basis reduction (Gram-Schmidt, size reduction, LLL)",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetErr(ui.NewRedWriter(os.Stderr))
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML config file with defaults")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging")

	root.AddCommand(reduceCmd(a))
	root.AddCommand(sizeReduceCmd(a))
	root.AddCommand(gramSchmidtCmd(a))
	root.AddCommand(demoCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := file.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := zerolog.InfoLevel
	if a.debug || cfg.DEBUG {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
	return nil
}

// load reads a basis file and builds its lattice.
func (a *app) load(path string) (*lattice.Lattice, error) {
	b, err := file.LoadBasis(path)
	if err != nil {
		return nil, err
	}
	return a.build(path, b)
}

func (a *app) build(path string, b *models.BASISFILE, opts ...lattice.Option) (*lattice.Lattice, error) {
	opts = append([]lattice.Option{lattice.WithLogger(a.log)}, opts...)
	l, err := lattice.NewFromRows(b.BASIS, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug().Str("file", path).Int("n", l.Dim()).Int("d", l.AmbientDim()).Msg("basis loaded")
	return l, nil
}

func reduceCmd(a *app) *cobra.Command {
	var (
		delta    float64
		maxSwaps int
		out      string
		history  string
	)
	cmd := &cobra.Command{
		Use:   "reduce FILE",
		Short: "LLL-reduce the basis in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := file.LoadBasis(args[0])
			if err != nil {
				return err
			}
			// Precedence: explicit flag, then the basis file, then config.
			if !cmd.Flags().Changed("delta") {
				delta = a.cfg.DELTA
				if b.DELTA != 0 {
					delta = b.DELTA
				}
			}
			if !cmd.Flags().Changed("max-swaps") {
				maxSwaps = a.cfg.MAXSWAPS
				if b.MAXSWAPS != 0 {
					maxSwaps = b.MAXSWAPS
				}
			}

			ui.Debugf(a.debug || a.cfg.DEBUG, "delta=%g max-swaps=%d\n", delta, maxSwaps)

			l, err := a.build(args[0], b, lattice.WithMaxSwaps(maxSwaps))
			if err != nil {
				return err
			}
			input := l.Rows()
			ui.PrintBasis("input", l.Basis())

			runErr := l.LLL(delta)
			if runErr != nil && !errors.Is(runErr, lattice.ErrSwapLimit) {
				return runErr
			}
			if runErr != nil {
				ui.Warningf("stopped after %d swaps, basis is only partially reduced\n", l.Stats().Swaps)
			}
			ui.PrintBasis("reduced", l.Basis())
			ui.PrintLattice(l)
			ui.PrintStats(l, delta)

			vol, _ := l.Volume()
			result := &models.RESULT{
				INPUT:      input,
				BASIS:      l.Rows(),
				DELTA:      delta,
				VOLUME:     vol,
				ITERATIONS: l.Stats().Iterations,
				SWAPS:      l.Stats().Swaps,
				COMPLETE:   runErr == nil,
			}
			if out != "" {
				if err := file.SaveToJSON(out, result); err != nil {
					return err
				}
				ui.Greenf("%s Saved\n", out)
			}
			if history != "" {
				m, err := matrix.NewMatrixFromVectors(l.Basis())
				if err != nil {
					return err
				}
				_, rows := m.ToStrings("", "")
				line := fmt.Sprintf("%s delta=%g swaps=%d complete=%t\n%s",
					args[0], delta, result.SWAPS, result.COMPLETE, rows)
				if err := file.AppendToFile(history, line); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.Flags().Float64Var(&delta, "delta", models.DELTA, "Lovász parameter, 0.25 < delta <= 1")
	cmd.Flags().IntVar(&maxSwaps, "max-swaps", lattice.DefaultMaxSwaps, "stop after this many swaps (0: unlimited)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result as JSON to this file")
	cmd.Flags().StringVar(&history, "history", "", "append the reduced basis to this text file")
	return cmd
}

func sizeReduceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size-reduce FILE",
		Short: "Run one size-reduction pass on the basis in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			ui.PrintBasis("input", l.Basis())
			if err := l.SizeReduce(); err != nil {
				return err
			}
			ui.PrintBasis("size-reduced", l.Basis())
			if !l.IsSizeReduced() {
				ui.Warningf("some |mu| > 0.5 remain; a single pass does not converge\n")
			}
			return nil
		},
	}
}

func gramSchmidtCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gram-schmidt FILE",
		Short: "Orthogonalize the basis in FILE and check the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			if err := l.GramSchmidt(); err != nil {
				return err
			}
			ui.PrintLattice(l)
			if l.IsOrthogonal(1e-9) {
				ui.Greenf("Gram-Schmidt basis is orthogonal\n")
			} else {
				ui.Warningf("Gram-Schmidt basis lost orthogonality (degenerate basis?)\n")
			}
			return nil
		},
	}
}

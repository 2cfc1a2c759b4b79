package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CK6170/lll-go/lattice"
	"github.com/CK6170/lll-go/models"
	"github.com/CK6170/lll-go/ui"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	oldOut, oldColor := ui.Out, ui.Color
	ui.Out, ui.Color = buf, false
	t.Cleanup(func() { ui.Out, ui.Color = oldOut, oldColor })

	root := newRootCmd()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const classicJSON = `{"BASIS": [[201, 37], [1648, 297]]}`

func TestReduce(t *testing.T) {
	in := writeFile(t, "basis.json", classicJSON)
	out := filepath.Join(t.TempDir(), "out.json")
	history := filepath.Join(t.TempDir(), "history.txt")

	stdout, err := run(t, "reduce", in, "--out", out, "--history", history)
	require.NoError(t, err)
	assert.Contains(t, stdout, "B :\n[ 1 32 ]\n[ 40 1 ]")
	assert.Contains(t, stdout, "LLL-reduced (delta=0.75)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var res models.RESULT
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, [][]float64{{201, 37}, {1648, 297}}, res.INPUT)
	assert.Equal(t, [][]float64{{1, 32}, {40, 1}}, res.BASIS)
	assert.Equal(t, 2, res.SWAPS)
	assert.True(t, res.COMPLETE)
	assert.InDelta(t, 1279.0, res.VOLUME, 1e-6)

	hist, err := os.ReadFile(history)
	require.NoError(t, err)
	assert.Contains(t, string(hist), "delta=0.75 swaps=2 complete=true\n[ 1 32 ]\n[ 40 1 ]\n")
}

func TestReduceDeltaPrecedence(t *testing.T) {
	cfg := writeFile(t, "lll.toml", "DELTA = 0.5\n")
	in := writeFile(t, "basis.yaml", "BASIS:\n  - [201, 37]\n  - [1648, 297]\nDELTA: 0.99\n")
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := run(t, "--config", cfg, "reduce", in, "-o", out)
	require.NoError(t, err)
	var res models.RESULT
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 0.99, res.DELTA, "basis file beats config")

	_, err = run(t, "--config", cfg, "reduce", in, "-o", out, "--delta", "0.6")
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 0.6, res.DELTA, "flag beats basis file")
}

func TestReduceInvalidDelta(t *testing.T) {
	in := writeFile(t, "basis.json", classicJSON)
	_, err := run(t, "reduce", in, "--delta", "1.5")
	require.ErrorIs(t, err, lattice.ErrInvalidDelta)
}

func TestReduceSwapLimit(t *testing.T) {
	in := writeFile(t, "basis.json", classicJSON)
	stdout, err := run(t, "reduce", in, "--max-swaps", "1")
	require.ErrorIs(t, err, lattice.ErrSwapLimit)
	assert.Contains(t, stdout, "stopped after 1 swaps")
	assert.Contains(t, stdout, "NOT LLL-reduced")
}

func TestReduceDegenerateBasis(t *testing.T) {
	in := writeFile(t, "basis.json", `{"BASIS": [[1, 2], [2, 4]]}`)
	out := filepath.Join(t.TempDir(), "out.json")
	_, err := run(t, "reduce", in, "-o", out)
	require.ErrorIs(t, err, lattice.ErrDegenerateBasis)
	assert.NoFileExists(t, out)

	_, err = run(t, "size-reduce", in)
	require.ErrorIs(t, err, lattice.ErrDegenerateBasis)
}

func TestReduceDefaultSwapCap(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"reduce"})
	require.NoError(t, err)
	assert.Equal(t, "100000", cmd.Flags().Lookup("max-swaps").DefValue)

	cfg := writeFile(t, "lll.toml", "MAXSWAPS = 1\n")
	in := writeFile(t, "basis.json", classicJSON)
	_, err = run(t, "--config", cfg, "reduce", in)
	require.ErrorIs(t, err, lattice.ErrSwapLimit)
}

func TestSizeReduceAndGramSchmidt(t *testing.T) {
	in := writeFile(t, "basis.json", `{"BASIS": [[1, 0, 0], [0.45, 1, 0], [0, 3, 1]]}`)
	stdout, err := run(t, "size-reduce", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "size-reduced (3)")
	assert.Contains(t, stdout, "a single pass does not converge")

	stdout, err = run(t, "gram-schmidt", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Gram-Schmidt basis is orthogonal")
}

func TestDemo(t *testing.T) {
	stdout, err := run(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "+ [ 1 2 3 ]")
	assert.Contains(t, stdout, "u + v\n[000]")
	assert.Contains(t, stdout, "B :\n[ 1 32 ]\n[ 40 1 ]")
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "reduce", filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

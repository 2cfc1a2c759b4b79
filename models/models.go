// Package models defines the serialized structures shared between the lll
// command line tool, the web server and basis files on disk.
//
// Keys follow the uppercase style of the on-disk files, e.g.
//
//	{"BASIS": [[201, 37], [1648, 297]], "DELTA": 0.75}
package models

import (
	"errors"
	"fmt"
)

// Defaults applied when a file or config leaves a field unset.
const (
	// DELTA is the customary Lovász parameter.
	DELTA = 0.75

	// MAXSWAPS bounds every LLL run; 0 in a config file lifts the bound.
	MAXSWAPS = 100000

	// ADDR is the default HTTP listen address for the server.
	ADDR = "127.0.0.1:8080"
)

// ErrEmptyBasis is returned by Validate for a file without basis vectors.
var ErrEmptyBasis = errors.New("basis is empty")

// BASISFILE is the input format accepted by `lll reduce` and friends. It is
// read from JSON or YAML.
type BASISFILE struct {
	BASIS    [][]float64 `json:"BASIS" yaml:"BASIS"`
	DELTA    float64     `json:"DELTA,omitempty" yaml:"DELTA,omitempty"`
	MAXSWAPS int         `json:"MAXSWAPS,omitempty" yaml:"MAXSWAPS,omitempty"`
}

// Validate checks that the basis is non-empty and rectangular.
func (b *BASISFILE) Validate() error {
	if len(b.BASIS) == 0 {
		return ErrEmptyBasis
	}
	d := len(b.BASIS[0])
	for i, row := range b.BASIS {
		if len(row) != d {
			return fmt.Errorf("BASIS[%d] has %d entries, expected %d", i, len(row), d)
		}
	}
	return nil
}

// CONFIG holds tool defaults, read from a TOML file:
//
//	DELTA = 0.99
//	MAXSWAPS = 100000
//	DEBUG = true
//	ADDR = "127.0.0.1:9090"
type CONFIG struct {
	DELTA    float64 `toml:"DELTA"`
	MAXSWAPS int     `toml:"MAXSWAPS"`
	DEBUG    bool    `toml:"DEBUG"`
	ADDR     string  `toml:"ADDR"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *CONFIG {
	return &CONFIG{DELTA: DELTA, MAXSWAPS: MAXSWAPS, ADDR: ADDR}
}

// RESULT is what `lll reduce --out` writes.
type RESULT struct {
	INPUT      [][]float64 `json:"INPUT"`
	BASIS      [][]float64 `json:"BASIS"`
	DELTA      float64     `json:"DELTA"`
	VOLUME     float64     `json:"VOLUME"`
	ITERATIONS int         `json:"ITERATIONS"`
	SWAPS      int         `json:"SWAPS"`
	COMPLETE   bool        `json:"COMPLETE"`
}

// Command `lll` reduces lattice bases from the command line.
//
//	lll reduce basis.json --delta 0.99 --out reduced.json
//	lll size-reduce basis.yaml
//	lll gram-schmidt basis.json
//	lll demo
//
// Basis files hold {"BASIS": [[...], ...]} as JSON or YAML, optionally with
// DELTA and MAXSWAPS. A TOML file passed with --config supplies defaults.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

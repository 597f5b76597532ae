// Package main provides imspca, a command line tool that fits principal
// component analysis models on ion mobility spectrometry datasets, writes
// scores, loadings and scree charts, and browses the scores in a terminal UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// version is set at build time via ldflags, defaults to "dev" for local builds
var version = "dev"

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

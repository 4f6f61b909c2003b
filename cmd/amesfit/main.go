// Package main provides the amesfit command-line interface.
package main

import (
	"os"

	"github.com/amesfit/amesfit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

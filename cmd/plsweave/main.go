// Package main provides the plsweave CLI.
package main

import (
	"os"

	"github.com/plsweave/plsweave/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the CLI for schemaprune, the schema usage analyzer.
package main

import (
	"os"

	"github.com/leapstack-labs/schemaprune/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

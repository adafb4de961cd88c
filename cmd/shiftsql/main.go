// Package main provides the shiftsql CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/shiftsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the pal CLI.
package main

import (
	"os"

	"github.com/runger/pal/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

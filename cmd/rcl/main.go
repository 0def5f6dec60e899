// Package main is the entry point for the rcl CLI.
package main

import (
	"os"

	"github.com/blueman82/rcl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

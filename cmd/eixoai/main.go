// Package main provides the entry point for the eixoai CLI.
package main

import (
	"os"

	"github.com/kaio-w-b/EixoAi/cmd/eixoai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

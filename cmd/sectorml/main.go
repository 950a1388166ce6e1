package main

import (
	"os"

	"github.com/wonny/sectorml/cmd/sectorml/commands"
)

// main is the entry point for the sectorml CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

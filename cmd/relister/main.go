// Package main is the entry point for the relister server.
package main

import (
	"os"

	"github.com/donaldgifford/relister/cmd/relister/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the rls CLI client.
package main

import (
	"github.com/donaldgifford/relister/cmd/rls/cmd"
)

func main() {
	cmd.Execute()
}

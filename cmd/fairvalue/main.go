package main

import (
	"os"

	"github.com/wonny/fairvalue/backend/cmd/fairvalue/commands"
)

// main is the entry point for the fairvalue CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/tanker-tools/fuelrecon/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

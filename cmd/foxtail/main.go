package main

import (
	"os"

	"github.com/colony-core/foxtail/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bash-zoo/select/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

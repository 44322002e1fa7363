package main

import (
	"os"

	"github.com/pickarena/backend/cmd/stockpick/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/penwyp/castgrep/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"qrdrop/cmd/qrdrop/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

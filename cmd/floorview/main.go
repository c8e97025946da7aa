package main

import (
	"os"

	"floorplan-viewer/cmd/floorview/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

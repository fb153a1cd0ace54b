package main

import (
	"fmt"
	"os"

	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/tui"
)

func main() {
	settings, err := config.Load(os.Getenv("HYMNSCAN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

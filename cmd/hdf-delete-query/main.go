package main

import (
	"fmt"
	"os"

	"hdf-eco-tool/internal/cli"
	"hdf-eco-tool/internal/exitcodes"
)

func main() {
	if err := cli.NewQueryCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitcodes.FromError(err))
	}
}

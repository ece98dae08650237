package main

import (
	"fmt"
	"os"

	"hdf-eco-tool/internal/cli"
	"hdf-eco-tool/internal/exitcodes"
	"hdf-eco-tool/internal/toolerr"
)

func main() {
	if err := cli.NewDeleteCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", toolerr.CodeOf(err), err)
		os.Exit(exitcodes.FromError(err))
	}
}

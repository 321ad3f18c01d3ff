package main

import (
	"errors"
	"os"

	"github.com/fatih/color"

	"github.com/croutondev/crouton/compiler/gen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, gen.ErrWriteFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
)

func main() {
	if err := cmd.Execute(); err != nil {
		msg := err.Error()
		if coverr.KindOf(err) != "" {
			msg = coverr.UserMessage(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
}

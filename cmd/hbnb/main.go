// hbnb is a record store for users, places and reviews with an interactive shell.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/n1rna/hbnb-cli/internal/command"
)

var version = "dev"

func main() {
	rootCmd := command.NewRootCommand(version)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, command.ErrConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

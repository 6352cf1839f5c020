package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/handy/cmd/handy"
	"github.com/arthur-debert/handy/pkg/style"
)

func main() {
	rootCmd := handy.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := style.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Show the full help for the command that failed
		fmt.Fprintln(os.Stderr)
		_ = rootCmd.Help()

		os.Exit(1)
	}
}

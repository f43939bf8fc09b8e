package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrison/dirwatcher/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		code := 1
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			if exitErr.Reported {
				os.Exit(code)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}

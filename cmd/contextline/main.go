package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/himattm/contextline/internal/input"
)

const usageHint = `Usage: contextline reads the status JSON snapshot on stdin, e.g.
  echo '{"model":{"display_name":"Opus"}}' | contextline
Run 'contextline --help' for flags and commands.`

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code. Nothing is
// written to stdout on failure.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var inputErr *input.InputError
		if errors.As(err, &inputErr) {
			fmt.Fprintln(stderr, usageHint)
		}
		return 1
	}
	return 0
}

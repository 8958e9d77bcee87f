// Command budgetctl drives a budgetdash server from the terminal: it uploads
// transactions, manages budgets and renders the dashboard reports.
package main

import (
	"fmt"
	"os"

	"budgetdash/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

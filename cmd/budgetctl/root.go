package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"budgetdash/internal/datasource/remote"
)

// envAPIURL overrides the default server address.
const envAPIURL = "BUDGET_API_URL"

type app struct {
	out     io.Writer
	apiURL  string
	timeout time.Duration
	asJSON  bool
}

func (a *app) client() *remote.Client {
	return remote.NewWithBaseURL(a.apiURL)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

func defaultAPIURL() string {
	if v := os.Getenv(envAPIURL); v != "" {
		return v
	}
	return remote.DefaultBaseURL
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Manage budgets and view spending reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `budgetctl talks to a running budgetdash server.

Example Usage:
  budgetctl upload transactions.csv
  budgetctl budget set "Food & Beverage" 250
  budgetctl budget status
  budgetctl report trend --chronological`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", defaultAPIURL(), "budgetdash server URL (env "+envAPIURL+")")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print raw JSON instead of rendered output")

	root.AddCommand(
		newUploadCmd(a),
		newClearTransactionsCmd(a),
		newBudgetCmd(a),
		newReportCmd(a),
	)
	return root
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a transactions CSV (description, amount, optional date)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			ctx, cancel := withTimeout(cmd, a.timeout)
			defer cancel()
			msg, err := a.client().UploadCSV(ctx, f.Name(), f)
			if err != nil {
				return err
			}
			a.println(msg)
			return nil
		},
	}
}

func newClearTransactionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-transactions",
		Short: "Delete every stored transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, a.timeout)
			defer cancel()
			msg, err := a.client().ClearTransactions(ctx)
			if err != nil {
				return err
			}
			a.println(msg)
			return nil
		},
	}
}

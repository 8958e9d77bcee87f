package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"budgetdash/internal/core"
	"budgetdash/internal/render"
)

func withTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}

func newBudgetCmd(a *app) *cobra.Command {
	budget := &cobra.Command{
		Use:   "budget",
		Short: "Set, list and check category budgets",
	}

	budget.AddCommand(
		&cobra.Command{
			Use:   "set <category> <limit>",
			Short: "Create or update the limit for one category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				limit, err := core.ParseAmount(args[1])
				if err != nil {
					return fmt.Errorf("limit %q: %w", args[1], err)
				}
				b := core.Budget{Category: args[0], Limit: limit}
				if err := b.Validate(); err != nil {
					return err
				}

				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				saved, err := a.client().SetBudget(ctx, b)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(saved)
				}
				a.println(fmt.Sprintf("Budget for %s set to %s", saved.Category, core.FormatAmount(saved.Limit)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "bulk <budgets.json>",
			Short: `Upsert budgets from a JSON array of {"category", "limit"} objects`,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				var budgets []core.Budget
				if err := json.Unmarshal(raw, &budgets); err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}

				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				saved, err := a.client().SetBudgets(ctx, budgets)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(saved)
				}
				a.println(fmt.Sprintf("Saved %d budgets", len(saved)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Show every budget limit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				limits, err := a.client().ViewBudgets(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(limits)
				}
				t := core.ReportTable{Header: []string{"Category", "Limit"}}
				for _, l := range limits {
					t.Rows = append(t.Rows, []string{l.Category, core.FormatAmount(l.BudgetLimit)})
				}
				a.println(render.Table("Budgets", t))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every budget limit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				msg, err := a.client().ClearBudgets(ctx)
				if err != nil {
					return err
				}
				a.println(msg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Compare spending with each budget",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				summary, err := a.client().ComputeSpend(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(summary)
				}
				a.println(render.BudgetStatuses(summary))
				return nil
			},
		},
	)
	return budget
}

package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Wellerson-M/controle-financeiro/internal/core"
)

func init() {
	rootCmd.AddCommand(budgetCmd)
	budgetCmd.AddCommand(budgetAddCmd)
	budgetCmd.AddCommand(budgetListCmd)
	budgetCmd.AddCommand(budgetUpdateCmd)
	budgetCmd.AddCommand(budgetDeleteCmd)

	for _, c := range []*cobra.Command{budgetAddCmd, budgetUpdateCmd} {
		c.Flags().StringP("category", "c", "", "Category the budget applies to")
		c.Flags().StringP("amount", "a", "", "Planned amount for the period")
		c.Flags().StringP("period", "m", "", "Period as YYYY-MM, e.g. 2024-05")
		c.MarkFlagRequired("category")
		c.MarkFlagRequired("amount")
		c.MarkFlagRequired("period")
	}
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category budgets",
}

func budgetInputFromFlags(cmd *cobra.Command) (core.BudgetInput, error) {
	category, _ := cmd.Flags().GetString("category")
	rawAmount, _ := cmd.Flags().GetString("amount")
	period, _ := cmd.Flags().GetString("period")

	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.BudgetInput{}, fmt.Errorf("amount %q: %w", rawAmount, err)
	}
	return core.BudgetInput{
		Category: category,
		Amount:   amount,
		Period:   core.Period(period),
	}, nil
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a budget for a category and period",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		in, err := budgetInputFromFlags(cmd)
		if err != nil {
			return err
		}
		b, err := a.dash.CreateBudget(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget #%d: %s %s for %s\n", b.ID, b.Category, b.Amount, b.Period)
		return nil
	},
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with spend progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		// Progress needs the analytics aggregates, not just the budget list.
		if err := a.dash.LoadAll(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: some data failed to refresh; progress may be incomplete")
		}

		rows := a.dash.BudgetProgressRows()
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No budgets yet")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tPERIOD\tAMOUNT\tSPENT")
		for _, row := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\n",
				row.Budget.ID, row.Budget.Category, row.Budget.Period, row.Budget.Amount, row.Percent)
		}
		return w.Flush()
	},
}

var budgetUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Replace a budget's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid budget id %q", args[0])
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		in, err := budgetInputFromFlags(cmd)
		if err != nil {
			return err
		}
		b, err := a.dash.UpdateBudget(cmd.Context(), id, in)
		if err != nil {
			return fmt.Errorf("update budget: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated budget #%d\n", b.ID)
		return nil
	},
}

var budgetDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid budget id %q", args[0])
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		if err := a.dash.DeleteBudget(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete budget: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted budget #%d\n", id)
		return nil
	},
}

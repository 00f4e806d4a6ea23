package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().IntP("limit", "n", 10, "How many recent transactions to show")
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the summary, recent transactions and budget progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		// Partial data still renders; whatever failed stays at its previous
		// value and the failure is already logged.
		if err := a.dash.LoadAll(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: some data failed to refresh")
		}
		snap := a.dash.Snapshot()
		user, _ := a.session.Identity()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Dashboard for %s\n\n", user.Email)
		fmt.Fprintf(out, "  Income:  %s\n", snap.Summary.Income)
		fmt.Fprintf(out, "  Expense: %s\n", snap.Summary.Expense)
		fmt.Fprintf(out, "  Balance: %s\n", snap.Summary.Balance)
		if snap.HasOverview {
			fmt.Fprintf(out, "  Server:  income %s, expense %s, balance %s\n",
				snap.Overview.Income, snap.Overview.Expense, snap.Overview.Balance)
		}
		fmt.Fprintln(out)

		limit, _ := cmd.Flags().GetInt("limit")
		if len(snap.Transactions) == 0 {
			fmt.Fprintln(out, "No transactions yet")
		} else {
			fmt.Fprintln(out, "Recent transactions:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, tr := range snap.Transactions {
				if i >= limit {
					break
				}
				sign := "-"
				if tr.Kind == "income" {
					sign = "+"
				}
				fmt.Fprintf(w, "  %s\t%s\t%s%s\n", tr.Date.Format("2006-01-02"), tr.Description, sign, tr.Amount)
			}
			w.Flush()
		}

		rows := a.dash.BudgetProgressRows()
		if len(rows) > 0 {
			fmt.Fprintln(out, "\nBudgets:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, row := range rows {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%d%%\n", row.Budget.Category, row.Budget.Period, row.Budget.Amount, row.Percent)
			}
			w.Flush()
		}
		return nil
	},
}

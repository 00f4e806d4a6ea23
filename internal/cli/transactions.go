package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Wellerson-M/controle-financeiro/internal/core"
)

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txUpdateCmd)
	txCmd.AddCommand(txDeleteCmd)
	txCmd.AddCommand(txPayCmd)

	for _, c := range []*cobra.Command{txAddCmd, txUpdateCmd} {
		c.Flags().StringP("description", "d", "", "What the transaction was for")
		c.Flags().StringP("amount", "a", "", "Amount, e.g. 1234.56")
		c.Flags().StringP("kind", "k", "expense", "income or expense")
		c.Flags().StringP("category", "c", "", "Category name (optional)")
		c.MarkFlagRequired("description")
		c.MarkFlagRequired("amount")
	}
	txAddCmd.Flags().Int("installments", 0, "Total number of installments (optional)")
	txAddCmd.Flags().Int("installment", 0, "This installment's index (optional)")
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Manage transactions",
}

func transactionInputFromFlags(cmd *cobra.Command) (core.TransactionInput, error) {
	description, _ := cmd.Flags().GetString("description")
	rawAmount, _ := cmd.Flags().GetString("amount")
	kind, _ := cmd.Flags().GetString("kind")
	category, _ := cmd.Flags().GetString("category")

	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.TransactionInput{}, fmt.Errorf("amount %q: %w", rawAmount, err)
	}
	in := core.TransactionInput{
		Description: description,
		Amount:      amount,
		Kind:        core.Kind(kind),
		Category:    category,
	}
	if cmd.Flags().Lookup("installments") != nil {
		in.InstallmentTotal, _ = cmd.Flags().GetInt("installments")
		in.InstallmentIndex, _ = cmd.Flags().GetInt("installment")
	}
	return in, nil
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		in, err := transactionInputFromFlags(cmd)
		if err != nil {
			return err
		}
		tr, err := a.dash.AddTransaction(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		snap := a.dash.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded #%d %s %s (%s)\n", tr.ID, tr.Description, tr.Amount, tr.Kind)
		fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", snap.Summary.Balance)
		return nil
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		txs, err := a.api.ListTransactions(cmd.Context(), a.session.Token())
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No transactions yet")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tKIND\tCATEGORY\tAMOUNT\tPAID")
		for _, tr := range txs {
			paid := ""
			if tr.IsPaid {
				paid = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				tr.ID, tr.Date.Format("2006-01-02"), tr.Description, tr.Kind, tr.Category, tr.Amount, paid)
		}
		return w.Flush()
	},
}

var txUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Replace a transaction's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		in, err := transactionInputFromFlags(cmd)
		if err != nil {
			return err
		}
		tr, err := a.dash.UpdateTransaction(cmd.Context(), id, in)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s\n", tr.ID, tr.Description)
		return nil
	},
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		if err := a.dash.DeleteTransaction(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id)
		return nil
	},
}

var txPayCmd = &cobra.Command{
	Use:   "pay ID",
	Short: "Mark a transaction as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		tr, err := a.dash.MarkPaid(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked #%d %s as paid\n", tr.ID, tr.Description)
		return nil
	},
}

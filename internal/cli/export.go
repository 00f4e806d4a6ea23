package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wellerson-M/controle-financeiro/internal/export/sheets"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportSheetsCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to external destinations",
}

var exportSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Append all transactions to a Google Sheet",
	Long: `Append the transaction list to the Google Sheet named by
GOOGLE_SPREADSHEET_ID and GOOGLE_SHEET_NAME. Service account credentials are
read from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
GOOGLE_APPLICATION_CREDENTIALS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAuth(); err != nil {
			return err
		}

		exporter, err := sheets.New(cmd.Context(), a.cfg.GoogleSpreadsheetID, a.cfg.GoogleSheetName)
		if err != nil {
			return err
		}

		txs, err := a.api.ListTransactions(cmd.Context(), a.session.Token())
		if err != nil {
			return err
		}
		n, err := exporter.Export(cmd.Context(), txs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions\n", n)
		return nil
	},
}

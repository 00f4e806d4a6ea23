package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "financeiro",
	Short: "Command-line client for the Controle Financeiro API",
	Long: `financeiro is a client for the Controle Financeiro personal-finance API.
It records income and expense transactions, shows dashboard summaries and
manages category budgets. Configuration comes from the environment (or a
local .env file); see API_BASE_URL, TOKEN_PATH and APP_ENV.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

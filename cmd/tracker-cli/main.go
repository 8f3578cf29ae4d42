// Command tracker-cli manages the ledger from the terminal. Without a
// subcommand it starts the interactive menu.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/cli"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/log"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentMenu)

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withService opens the configured store for the duration of a command run.
func withService(logger *log.Logger, run func(cmd *cobra.Command, svc *services.TransactionService, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := cli.LoadAndValidateConfig(logger)
		ledger, cleanup := cli.OpenStore(cmd.Context(), logger, cfg)
		defer cleanup()

		svc := services.NewTransactionService(ledger, cli.ConnectAMQP(logger, cfg))
		defer svc.Close()

		return run(cmd, svc, args)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker-cli",
		Short: "Personal finance tracker",
		Long:  "Track income and expenses in a flat-file ledger with analytics.",
		RunE: withService(logger, func(cmd *cobra.Command, svc *services.TransactionService, _ []string) error {
			return cli.NewMenu(svc, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		}),
		SilenceUsage: true,
	}

	root.AddCommand(
		newAddCmd(logger),
		newListCmd(logger),
		newDeleteCmd(logger),
		newBalanceCmd(logger),
		newSummaryCmd(logger),
		newReportCmd(logger),
	)
	return root
}

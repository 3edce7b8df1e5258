package commands

import (
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func newReportCommand(opts *options) *cobra.Command {
	var asOf string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print ledger reports as JSON",
	}
	reportCmd.PersistentFlags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, defaults to today)")

	reportCmd.AddCommand(
		&cobra.Command{
			Use:   "balance-sheet",
			Short: "Balance sheet with the net-income cross-check",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				repos, closeFn, err := opts.openRepositories(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()

				bs, err := services.NewServiceContainer(repos, nil).Aggregator.ComputeBalanceSheet(cmd.Context(), asOf)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ToBalanceSheetResponse(bs))
			},
		},
		&cobra.Command{
			Use:   "trial-balance",
			Short: "Debit and credit totals per account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				repos, closeFn, err := opts.openRepositories(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()

				tb, err := services.NewServiceContainer(repos, nil).Aggregator.TrialBalance(cmd.Context(), asOf)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ToTrialBalanceResponse(tb))
			},
		},
	)
	return reportCmd
}

package commands

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/platform/chartseed"
	"github.com/spf13/cobra"
)

func loadChart(path string) (domain.ChartDefinition, error) {
	if path == "" {
		return chartseed.Default()
	}
	return chartseed.Load(path)
}

func newSeedCommand(opts *options) *cobra.Command {
	var chartPath, actor string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install a chart of accounts; existing groups and accounts are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := loadChart(chartPath)
			if err != nil {
				return err
			}
			repos, closeFn, err := opts.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			svc := services.NewServiceContainer(repos, nil)
			resp, err := svc.Chart.SeedChart(cmd.Context(), chart, actor)
			if err != nil {
				return fmt.Errorf("seeding chart: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "chart YAML file (defaults to the built-in chart)")
	cmd.Flags().StringVar(&actor, "actor", "ledgerctl", "actor recorded in audit fields")
	return cmd
}

func newChartCommand() *cobra.Command {
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Inspect chart of accounts definitions",
	}

	chartCmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a chart YAML file; without a file the built-in chart is checked",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			chart, err := loadChart(path)
			if err != nil {
				return err
			}
			var subgroups, accounts int
			for _, g := range chart.MainGroups {
				subgroups += len(g.Subgroups)
				for _, s := range g.Subgroups {
					accounts += len(s.Accounts)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d main groups, %d subgroups, %d accounts\n",
				len(chart.MainGroups), subgroups, accounts)
			return nil
		},
	})
	return chartCmd
}

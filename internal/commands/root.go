// Package commands implements the ledgerctl administration CLI.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
	"github.com/SscSPs/erp_ledger/pkg/database"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	databaseURL    string
	migrationsPath string
	memory         bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the ERP ledger database",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL URL (defaults to PGSQL_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.migrationsPath, "migrations", "", "migration source URL (defaults to MIGRATIONS_PATH)")
	rootCmd.PersistentFlags().BoolVar(&opts.memory, "memory", false, "use a throwaway in-memory ledger")

	rootCmd.AddCommand(
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newChartCommand(),
		newReportCommand(opts),
		newSmokeCommand(),
	)

	return rootCmd
}

// resolve fills unset flags from the environment configuration.
func (o *options) resolve() error {
	if o.memory || (o.databaseURL != "" && o.migrationsPath != "") {
		return nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.databaseURL == "" {
		o.databaseURL = cfg.DatabaseURL
	}
	if o.migrationsPath == "" {
		o.migrationsPath = cfg.MigrationsPath
	}
	return nil
}

// openRepositories connects to the configured storage. The returned func
// releases it.
func (o *options) openRepositories(ctx context.Context) (portsrepo.RepositoryProvider, func(), error) {
	if err := o.resolve(); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if o.memory {
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}
	pool, err := database.NewPgxPool(ctx, o.databaseURL, true)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

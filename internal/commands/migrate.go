package commands

import (
	"errors"
	"fmt"

	"github.com/SscSPs/erp_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply all pending migrations or revert the last one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.memory {
				return errors.New("migrate needs a database; drop --memory")
			}
			if err := opts.resolve(); err != nil {
				return err
			}
			changed, err := database.Migrate(opts.databaseURL, opts.migrationsPath, database.Direction(args[0]))
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", args[0])
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no change")
			}
			return nil
		},
	}
}

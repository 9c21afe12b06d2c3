package cmd

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/app"
	"github.com/shandysiswandi/newsletter/internal/app/migrations"
	"github.com/spf13/cobra"
)

const migrateDescription = `` +
	`Applies, rolls back or lists the embedded SQL migrations.

  up      apply every pending migration
  down    roll back the most recent migration
  status  log the state of every migration

The database is taken from database.url, or assembled from the
database.{username,password,host,port,name,ssl_mode} keys.`

type MigrateFunc func(ctx context.Context, command string) error

func defaultMigrator(ctx context.Context, command string) error {
	return app.Migrate(ctx, command)
}

func newMigrateCmd(migrate MigrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status>",
		Short:     "Run database migrations",
		Long:      migrateDescription,
		ValidArgs: []string{migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if err := migrate(cmd.Context(), args[0]); err != nil {
				return err
			}

			cmd.Printf("migrate %s: done\n", args[0])
			return nil
		},
	}
}

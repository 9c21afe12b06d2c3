package cmd

import (
	"github.com/spf13/cobra"
)

const newsletterDesc = "Newsletter subscription service with SendGrid delivery"
const newsletterDescLong = newsletterDesc + "\n\n" +
	`Running without a subcommand is the same as "serve".

To start the HTTP API and the message consumers:
  newsletter serve

To apply pending database migrations:
  newsletter migrate up

Configuration is read from $CONFIG_PATH, falling back to /config/config.yaml
(or ./config/config.yaml when LOCAL=true).
`

var rootCmd = newRootCmd(defaultServiceFactory, defaultMigrator)

func newRootCmd(newSvc ServiceFactoryFunc, migrate MigrateFunc) *cobra.Command {
	root := &cobra.Command{
		Use:     "newsletter",
		Version: "v0.1.0",
		Short:   newsletterDesc,
		Long:    newsletterDescLong,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, newSvc, shutdownTimeout)
		},
	}

	root.AddCommand(newServeCmd(newSvc), newMigrateCmd(migrate))

	return root
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

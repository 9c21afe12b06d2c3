package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/newsletter/internal/app"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// Service is the long-running process started by serve.
type Service interface {
	// Start returns a channel that is closed once a termination signal arrives.
	Start() <-chan struct{}
	Stop(ctx context.Context)
}

type ServiceFactoryFunc func() (Service, error)

func defaultServiceFactory() (Service, error) {
	return app.New()
}

func newServeCmd(newSvc ServiceFactoryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and message consumers",
		Long: `Starts the HTTP server and the message consumers, then blocks until
SIGINT, SIGTERM or SIGHUP. Shutdown waits up to 10 seconds for in-flight work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, newSvc, shutdownTimeout)
		},
	}
}

func serve(cmd *cobra.Command, newSvc ServiceFactoryFunc, timeout time.Duration) error {
	cmd.SilenceUsage = true

	svc, err := newSvc()
	if err != nil {
		return err
	}

	<-svc.Start()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc.Stop(ctx)
	slog.InfoContext(ctx, "service stopped")

	return nil
}

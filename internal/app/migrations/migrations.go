// Package migrations embeds the goose SQL migrations and applies them through
// a pgx pool.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

var ErrUnknownCommand = errors.New("migrations: unknown command")

const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// Run executes one goose command (up, down or status) against pool.
func Run(ctx context.Context, pool *pgxpool.Pool, command string) (err error) {
	// goose works on database/sql; the wrapper shares the pool's connections
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if cErr := db.Close(); cErr != nil {
			slog.ErrorContext(ctx, "failed to close migration db handle", "error", cErr)
		}
	}(db)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS, goose.WithLogger(slogLogger{}))
	if err != nil {
		return fmt.Errorf("migrations: new provider: %w", err)
	}
	defer func() { err = errors.Join(err, provider.Close()) }()

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		for _, r := range results {
			slog.InfoContext(ctx, "migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
		}
		return err

	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil && result.Source != nil {
			slog.InfoContext(ctx, "migration rolled back", "version", result.Source.Version, "path", result.Source.Path)
		}
		return err

	case CommandStatus:
		statuses, err := provider.Status(ctx)
		for _, st := range statuses {
			slog.InfoContext(ctx, "migration status", "version", st.Source.Version, "path", st.Source.Path, "state", st.State, "applied_at", st.AppliedAt)
		}
		return err

	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

type slogLogger struct{}

func (slogLogger) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (slogLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

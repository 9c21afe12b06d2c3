package app

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/app/migrations"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
)

// Migrate runs one migration command against the configured database
// without starting anything else.
func Migrate(ctx context.Context, command string) error {
	cfg, err := config.NewViper(configPath())
	if err != nil {
		return err
	}
	defer cfg.Close()

	pool, err := newDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return migrations.Run(ctx, pool, command)
}

package app

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
)

// databaseURL returns database.url when set, otherwise it assembles a
// postgres URL from database.{username,password,host,port,name,ssl_mode}.
func databaseURL(cfg config.Config) string {
	if v := strings.TrimSpace(cfg.GetString("database.url")); v != "" {
		return v
	}

	password := secret.New(cfg.GetString("database.password"))

	port := cfg.GetString("database.port")
	if port == "" {
		port = "5432"
	}

	sslMode := cfg.GetString("database.ssl_mode")
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.GetString("database.username"), password.Reveal()),
		Host:     net.JoinHostPort(cfg.GetString("database.host"), port),
		Path:     "/" + cfg.GetString("database.name"),
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return u.String()
}

func newDBPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	if v := cfg.GetInt32("database.pool.max_conns"); v > 0 {
		poolCfg.MaxConns = v
	}
	if v := cfg.GetInt32("database.pool.min_conns"); v > 0 {
		poolCfg.MinConns = v
	}
	if v := cfg.GetSecond("database.pool.max_conn_lifetime_seconds"); v > 0 {
		poolCfg.MaxConnLifetime = v
	}
	if v := cfg.GetSecond("database.pool.max_conn_idle_seconds"); v > 0 {
		poolCfg.MaxConnIdleTime = v
	}
	if v := cfg.GetSecond("database.pool.health_check_period_seconds"); v > 0 {
		poolCfg.HealthCheckPeriod = v
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"films-htmx/backend/internal/config"
)

const (
	MaxConns       = 5
	AcquireTimeout = 5 * time.Second
)

var ErrConnect = errors.New("database connection failed")

// ConnString builds a postgres URL from cfg, escaping the credentials.
func ConnString(cfg config.Config) string {
	port := cfg.Port
	if port == 0 {
		port = config.DefaultDBPort
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.Name,
	}
	return u.String()
}

// PoolConfig builds the pgxpool settings for cfg: at most MaxConns
// connections, each dial bounded by AcquireTimeout.
func PoolConfig(cfg config.Config) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, err
	}
	pcfg.MaxConns = MaxConns
	pcfg.ConnConfig.ConnectTimeout = AcquireTimeout
	return pcfg, nil
}

// Connect validates cfg, opens the pool and pings it. Both steps share a
// single AcquireTimeout budget. There is no retry.
func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	return connect(ctx, cfg, log, AcquireTimeout)
}

func connect(ctx context.Context, cfg config.Config, log *zap.Logger, timeout time.Duration) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pcfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	pcfg.ConnConfig.ConnectTimeout = timeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	log.Info("database pool ready",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", pcfg.MaxConns))
	return pool, nil
}

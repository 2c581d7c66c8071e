package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPoolMetrics exposes the pool's checkout state as gauges on reg.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauge := func(name, help string, read func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return read(pool.Stat())
		})
	}
	collectors := []prometheus.Collector{
		gauge("films_db_pool_max_conns", "Maximum size of the connection pool",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		gauge("films_db_pool_total_conns", "Connections currently open",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("films_db_pool_acquired_conns", "Connections checked out by handlers",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("films_db_pool_idle_conns", "Idle connections",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "films_db_pool_empty_acquire_total",
			Help: "Acquires that had to wait for a connection",
		}, func() float64 { return float64(pool.Stat().EmptyAcquireCount()) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

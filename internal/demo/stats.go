// AngelaMos | 2026
// stats.go

package demo

import (
	"context"
	"database/sql"
	"runtime"

	"github.com/redis/go-redis/v9"
)

// StatsConfig wires the optional checks of the storage backend. Unset
// checks are left out of the report.
type StatsConfig struct {
	Backend     string
	StoragePing func(ctx context.Context) error
	ScopeCount  func() int
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
}

type Stats struct {
	cfg StatsConfig
}

func NewStats(cfg StatsConfig) *Stats {
	return &Stats{cfg: cfg}
}

type StatsResponse struct {
	Storage StorageStatus `json:"storage"`
	Runtime RuntimeStats  `json:"runtime"`
}

type StorageStatus struct {
	Backend  string          `json:"backend"`
	Healthy  bool            `json:"healthy"`
	Scopes   *int            `json:"scopes,omitempty"`
	Database *DBPoolStats    `json:"database,omitempty"`
	Redis    *RedisPoolStats `json:"redis,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}

func (s *Stats) Collect(ctx context.Context) StatsResponse {
	status := StorageStatus{
		Backend: s.cfg.Backend,
		Healthy: true,
	}

	if s.cfg.StoragePing != nil {
		if err := s.cfg.StoragePing(ctx); err != nil {
			status.Healthy = false
		}
	}
	if s.cfg.ScopeCount != nil {
		n := s.cfg.ScopeCount()
		status.Scopes = &n
	}
	if s.cfg.DBStats != nil {
		st := s.cfg.DBStats()
		status.Database = &DBPoolStats{
			MaxOpenConnections: st.MaxOpenConnections,
			OpenConnections:    st.OpenConnections,
			InUse:              st.InUse,
			Idle:               st.Idle,
			WaitCount:          st.WaitCount,
			WaitDuration:       st.WaitDuration.String(),
		}
	}
	if s.cfg.RedisStats != nil {
		if st := s.cfg.RedisStats(); st != nil {
			status.Redis = &RedisPoolStats{
				Hits:       st.Hits,
				Misses:     st.Misses,
				Timeouts:   st.Timeouts,
				TotalConns: st.TotalConns,
				IdleConns:  st.IdleConns,
				StaleConns: st.StaleConns,
			}
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return StatsResponse{
		Storage: status,
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}
}

package main

import (
	"fmt"
	"log/slog"

	"calories/internal/adapter/file"
	"calories/internal/adapter/memory"
	"calories/internal/adapter/postgres"
	redisstore "calories/internal/adapter/redis"
	"calories/internal/adapter/sqlite"
	"calories/internal/config"
	"calories/internal/domain"
)

// stores bundles the persistence ports selected by STORE_BACKEND.
type stores struct {
	kv       domain.KeyValueStore
	sessions domain.SessionRepository
	closers  []func() error
}

// Close releases backend connections in reverse order of opening.
func (s *stores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openStores builds the key/value store and session repository. Backends
// without a session table keep sessions in memory.
func openStores(cfg config.Config, log *slog.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		db := memory.New()
		log.Debug("using in-memory store")
		return &stores{kv: db, sessions: db.NewSessionRepo()}, nil

	case config.BackendFile:
		fs, err := file.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		log.Debug("using file store", "dir", cfg.DataDir)
		return &stores{kv: fs, sessions: memory.New().NewSessionRepo()}, nil

	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		log.Debug("using postgres store")
		return &stores{kv: db, sessions: postgres.NewSessionRepo(db), closers: []func() error{db.Close}}, nil

	case config.BackendRedis:
		rs, err := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Debug("using redis store", "addr", cfg.RedisAddr)
		return &stores{kv: rs, sessions: memory.New().NewSessionRepo(), closers: []func() error{rs.Close}}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
		log.Debug("using sqlite store", "path", cfg.SQLitePath)
		return &stores{kv: db, sessions: sqlite.NewSessionRepo(db), closers: []func() error{db.Close}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

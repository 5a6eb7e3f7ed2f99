package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/internal/platform/docstore"
)

// OpenBackend builds the document backend selected by cfg.StoreBackend.
func OpenBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (docstore.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		logger.Info().Str("path", cfg.DataFile).Msg("using file store")
		return docstore.NewFileBackend(cfg.DataFile), nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory store, data is lost on exit")
		return docstore.NewMemoryBackend(), nil

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		b := docstore.NewPostgresBackend(pool, cfg.StoreTable, cfg.StoreKey)
		if err := b.EnsureTable(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Str("table", cfg.StoreTable).Msg("connected to postgres store")
		return b, nil

	case config.BackendRedis:
		b, err := docstore.NewRedisBackend(cfg.RedisURL, cfg.StoreKey)
		if err != nil {
			return nil, err
		}
		if err := b.Ping(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info().Str("key", cfg.StoreKey).Msg("connected to redis store")
		return b, nil

	case config.BackendMongo:
		b, err := docstore.NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.StoreKey)
		if err != nil {
			return nil, err
		}
		if err := b.Ping(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		logger.Info().Str("database", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).Msg("connected to mongo store")
		return b, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// OpenDefaults returns the doctor directory seed: the file named by
// DEFAULT_DOCTORS_FILE, or the built-in directory.
func OpenDefaults(cfg *config.Config) (docstore.DefaultsProvider, error) {
	if cfg.DefaultDoctorsFile == "" {
		return docstore.BuiltinDefaults{}, nil
	}
	return docstore.LoadDefaultsFile(cfg.DefaultDoctorsFile)
}

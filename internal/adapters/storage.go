package adapters

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"team_achievements/internal/bootstrap"
	errs "team_achievements/internal/errors"
	"team_achievements/internal/repository"
)

// Storage is the document backend chosen by STORAGE_BACKEND together with
// the connections it holds open.
type Storage struct {
	Docs  repository.DocumentStore
	redis *AdapterRedis
	mongo *AdapterMongo
}

func OpenStorage(ctx context.Context, cfg *bootstrap.Config, log *zap.SugaredLogger) (*Storage, error) {
	switch cfg.StorageBackend {
	case bootstrap.BackendFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
		}
		log.Infof("using file storage in %s", cfg.DataDir)
		return &Storage{Docs: repository.NewFileDocumentStore(cfg.DataDir)}, nil

	case bootstrap.BackendMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return &Storage{Docs: repository.NewMemoryDocumentStore()}, nil

	case bootstrap.BackendRedis:
		redisAdapter := NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &Storage{
			Docs:  repository.NewRedisDocumentStore(redisAdapter.GetClient(), cfg.RedisPrefix),
			redis: redisAdapter,
		}, nil

	case bootstrap.BackendMongo:
		mongoAdapter := NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &Storage{
			Docs:  repository.NewMongoDocumentStore(mongoAdapter.Database),
			mongo: mongoAdapter,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", errs.ErrUnknownStorageBackend, cfg.StorageBackend)
}

func (s *Storage) Close(ctx context.Context) {
	if s.mongo != nil {
		_ = s.mongo.Close(ctx)
	}
	if s.redis != nil {
		_ = s.redis.Close(ctx)
	}
}

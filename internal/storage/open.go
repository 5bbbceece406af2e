package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Anand-247/FE-VF/internal/config"
)

// Open connects the configured backend. The returned closer releases it.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), func() error { return nil }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return NewRedisStore(client, cfg.Namespace), client.Close, nil

	case "mongo":
		db, err := ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		store := NewMongoStore(db, cfg.Namespace)
		closer := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Close(ctx)
		}
		return store, closer, nil

	case "sqlite":
		store, err := NewSQLiteStore(cfg.SQLite.Path, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		if err := store.RunMigrations(); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
}

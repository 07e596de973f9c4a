package modelstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"attribgraph/internal/logger"
	"attribgraph/pkg/models"
)

// RedisConfig configures Redis access for artifact persistence.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps the metadata record and model blob under prefixed keys,
// so several trained artifacts can share one Redis instance.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisStore constructs a Redis-backed artifact store.
func NewRedisStore(cfg RedisConfig, log *logger.Logger) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.KeyPrefix) == "" {
		cfg.KeyPrefix = "attribgraph:model"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis model store: %w", err)
	}

	return &RedisStore{client: client, prefix: strings.TrimSpace(cfg.KeyPrefix), log: log}, nil
}

// SaveModel writes metadata and blob in one pipeline.
func (s *RedisStore) SaveModel(meta models.ModelMetadata, blob []byte) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal model metadata: %w", err)
	}

	ctx := context.Background()
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.metaKey(), metaBytes, 0)
	pipe.Set(ctx, s.modelKey(), blob, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write model artifact keys: %w", err)
	}

	s.log.Infof("Model artifact saved to redis under %s (%d bytes)", s.modelKey(), len(blob))
	return nil
}

// LoadMetadata reads and parses the metadata record.
func (s *RedisStore) LoadMetadata() (*models.ModelMetadata, error) {
	data, err := s.client.Get(context.Background(), s.metaKey()).Bytes()
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	var meta models.ModelMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse model metadata: %w", err)
	}
	return &meta, nil
}

// LoadModel reads the serialized classifier blob.
func (s *RedisStore) LoadModel() ([]byte, error) {
	data, err := s.client.Get(context.Background(), s.modelKey()).Bytes()
	if err != nil {
		return nil, fmt.Errorf("read model blob: %w", err)
	}
	return data, nil
}

// Close closes Redis resources.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) metaKey() string {
	return s.prefix + ":metadata"
}

func (s *RedisStore) modelKey() string {
	return s.prefix + ":blob"
}

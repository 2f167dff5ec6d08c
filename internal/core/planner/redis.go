package planner

import (
	"context"
	"fmt"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedisClient 創建 Redis 客戶端並測試連線
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Connected to Redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

// RedisStore 以 Redis 單一鍵保存週計畫
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore 創建 Redis 儲存
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
	}
}

// Load 讀取週計畫，鍵不存在時回傳空計畫
func (s *RedisStore) Load(ctx context.Context) (WeeklyMeals, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return WeeklyMeals{}, nil
		}
		return nil, fmt.Errorf("failed to get weekly plan: %w", err)
	}
	return decodePlan(data)
}

// Save 寫入週計畫（不設過期時間，由每週重置清除）
func (s *RedisStore) Save(ctx context.Context, meals WeeklyMeals) error {
	data, err := encodePlan(meals)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set weekly plan: %w", err)
	}
	return nil
}

// Clear 刪除週計畫
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete weekly plan: %w", err)
	}
	return nil
}

// Ping 檢查 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

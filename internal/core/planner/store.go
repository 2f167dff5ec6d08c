package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"recipe-finder/internal/pkg/common"
)

// ErrCorruptPlan 儲存的內容無法解析
var ErrCorruptPlan = errors.New("stored weekly plan is corrupt")

// Store 週計畫儲存，整份計畫存在單一鍵之下
type Store interface {
	Load(ctx context.Context) (WeeklyMeals, error)
	Save(ctx context.Context, meals WeeklyMeals) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

func encodePlan(meals WeeklyMeals) ([]byte, error) {
	if meals == nil {
		meals = WeeklyMeals{}
	}
	data, err := json.Marshal(meals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weekly plan: %w", err)
	}
	return data, nil
}

func decodePlan(data []byte) (WeeklyMeals, error) {
	meals := WeeklyMeals{}
	if len(data) == 0 {
		return meals, nil
	}
	if err := common.ParseJSONBytes(data, &meals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPlan, err)
	}
	if meals == nil {
		meals = WeeklyMeals{}
	}
	return meals, nil
}

// MemoryStore 行程內的週計畫儲存，未啟用 Redis 時使用
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load 讀取週計畫
func (s *MemoryStore) Load(_ context.Context) (WeeklyMeals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodePlan(s.data)
}

// Save 寫入週計畫
func (s *MemoryStore) Save(_ context.Context, meals WeeklyMeals) error {
	data, err := encodePlan(meals)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Clear 清空週計畫
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// Ping 記憶體儲存永遠可用
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// SetRaw 直接寫入原始內容
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

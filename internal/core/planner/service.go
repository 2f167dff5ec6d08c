package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 週計畫服務
// 每次修改都是對單一鍵的讀取-修改-寫入，以 mu 串行化
type Service struct {
	store        Store
	now          func() time.Time
	resetWeekday time.Weekday
	resetHour    int
	mu           sync.Mutex
}

// Option 服務選項
type Option func(*Service)

// WithClock 注入時鐘
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithResetSchedule 設定每週重置的時間點
func WithResetSchedule(weekday time.Weekday, hour int) Option {
	return func(s *Service) {
		s.resetWeekday = weekday
		s.resetHour = hour
	}
}

// NewService 創建週計畫服務，預設週日 20:00 後重置
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		now:          time.Now,
		resetWeekday: time.Sunday,
		resetHour:    20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartOfWeek 回傳 t 所在週的週一零時
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// ParseDate 驗證 yyyy-MM-dd 日期並回傳標準格式
func ParseDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", common.ErrInvalidPlanDate.Wrap(fmt.Errorf("date %q must be yyyy-MM-dd", date))
	}
	return t.Format(DateLayout), nil
}

// Week 取得本週計畫，必要時先執行每週重置
// 儲存內容損毀時記錄錯誤並以空計畫顯示
func (s *Service) Week(ctx context.Context) (*Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, err := s.resetIfDue(ctx)
	if err != nil {
		return nil, err
	}

	meals, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptPlan) {
			return nil, common.ErrPlannerStorage.Wrap(err)
		}
		common.LogError("Error loading meals", zap.Error(err))
		meals = WeeklyMeals{}
	}

	start := StartOfWeek(s.now())
	week := &Week{
		Start: start.Format(DateLayout),
		Days:  make([]Day, 0, 7),
		Reset: reset,
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		day := Day{
			DayName: date.Weekday().String(),
			Date:    date.Format(DateLayout),
		}
		if dm := meals[day.Date]; dm != nil {
			day.Meals = *dm
		}
		week.Days = append(week.Days, day)
	}

	return week, nil
}

// Plan 取得完整的儲存內容
func (s *Service) Plan(ctx context.Context) (WeeklyMeals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meals, err := s.store.Load(ctx)
	if err != nil {
		return nil, common.ErrPlannerStorage.Wrap(err)
	}
	return meals, nil
}

// AddMeal 將食譜投影放入指定日期與餐別，覆蓋原有內容
func (s *Service) AddMeal(ctx context.Context, date string, slot MealType, r recipe.Recipe) (*DayMeals, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	slot, err = ParseMealType(string(slot))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meals, err := s.store.Load(ctx)
	if err != nil {
		common.LogError("Error adding meal to planner", zap.Error(err), zap.String("date", date))
		return nil, common.ErrPlannerStorage.Wrap(err)
	}

	day := meals[date]
	if day == nil {
		day = &DayMeals{}
		meals[date] = day
	}
	meal := NewPlannedMeal(r)
	day.Set(slot, &meal)

	if err := s.store.Save(ctx, meals); err != nil {
		common.LogError("Error adding meal to planner", zap.Error(err), zap.String("date", date))
		return nil, common.ErrPlannerStorage.Wrap(err)
	}

	common.LogInfo("Meal added to planner",
		zap.String("date", date),
		zap.String("meal", string(slot)),
		zap.String("recipe_id", meal.ID),
	)

	result := *day
	return &result, nil
}

// RemoveMeal 清空指定餐別；日期不存在時不做任何事
func (s *Service) RemoveMeal(ctx context.Context, date string, slot MealType) (bool, error) {
	date, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	slot, err = ParseMealType(string(slot))
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meals, err := s.store.Load(ctx)
	if err != nil {
		return false, common.ErrPlannerStorage.Wrap(err)
	}

	day := meals[date]
	if day == nil {
		return false, nil
	}
	day.Set(slot, nil)

	if err := s.store.Save(ctx, meals); err != nil {
		return false, common.ErrPlannerStorage.Wrap(err)
	}

	common.LogInfo("Meal removed from planner",
		zap.String("date", date),
		zap.String("meal", string(slot)),
	)
	return true, nil
}

// ResetIfDue 到達重置時間時清空週計畫
func (s *Service) ResetIfDue(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetIfDue(ctx)
}

func (s *Service) resetIfDue(ctx context.Context) (bool, error) {
	now := s.now()
	if now.Weekday() != s.resetWeekday || now.Hour() < s.resetHour {
		return false, nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return false, common.ErrPlannerStorage.Wrap(err)
	}
	common.LogInfo("Weekly plan reset", zap.Time("at", now))
	return true, nil
}

// Ping 檢查儲存是否可用
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

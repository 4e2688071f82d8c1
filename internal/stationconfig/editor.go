package stationconfig

import (
	"context"
	"slices"
	"sync"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type Store interface {
	GetStationDailyConfigs(ctx context.Context) ([]domain.StationDailyConfig, error)
	// SaveStationDailyConfigs 在一个事务中按星期 upsert 全部配置
	SaveStationDailyConfigs(ctx context.Context, configs []domain.StationDailyConfig) error
	GetAllStations(ctx context.Context) ([]*domain.Station, error)
}

// Editor 每次修改都读取整周配置，修改后整周保存
type Editor struct {
	store Store
	mu    sync.Mutex
}

func NewEditor(store Store) *Editor {
	return &Editor{store: store}
}

func (e *Editor) Week(ctx context.Context) ([]domain.StationDailyConfig, error) {
	configs, err := e.store.GetStationDailyConfigs(ctx)
	if err != nil {
		return nil, err
	}
	return NewWeek(configs).Configs(), nil
}

// Save 用客户端提交的整周配置覆盖数据库
func (e *Editor) Save(ctx context.Context, configs []domain.StationDailyConfig) ([]domain.StationDailyConfig, error) {
	for _, c := range configs {
		if !domain.IsWeekday(string(c.Weekday)) {
			return nil, ErrInvalidWeekday
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.commit(ctx, NewWeek(configs))
}

func (e *Editor) ToggleVisibility(ctx context.Context, d domain.Weekday, stationID string, visible bool) ([]domain.StationDailyConfig, error) {
	if visible {
		if err := e.ensureStation(ctx, stationID); err != nil {
			return nil, err
		}
	}
	return e.update(ctx, func(w *Week) error {
		return w.ToggleVisibility(d, stationID, visible)
	})
}

func (e *Editor) Reorder(ctx context.Context, d domain.Weekday, activeID, overID string) ([]domain.StationDailyConfig, error) {
	return e.update(ctx, func(w *Week) error {
		return w.Reorder(d, activeID, overID)
	})
}

func (e *Editor) CopyDay(ctx context.Context, src domain.Weekday, targets []domain.Weekday) ([]domain.StationDailyConfig, error) {
	return e.update(ctx, func(w *Week) error {
		return w.CopyDay(src, targets)
	})
}

func (e *Editor) update(ctx context.Context, fn func(w *Week) error) ([]domain.StationDailyConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	configs, err := e.store.GetStationDailyConfigs(ctx)
	if err != nil {
		return nil, err
	}

	w := NewWeek(configs)
	if err := fn(w); err != nil {
		return nil, err
	}

	return e.commit(ctx, w)
}

func (e *Editor) commit(ctx context.Context, w *Week) ([]domain.StationDailyConfig, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	configs := w.Configs()
	if err := e.store.SaveStationDailyConfigs(ctx, configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (e *Editor) ensureStation(ctx context.Context, stationID string) error {
	stations, err := e.store.GetAllStations(ctx)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(stations, func(s *domain.Station) bool { return s.ID == stationID }) {
		return domain.ErrStationNotFound
	}
	return nil
}

package stationconfig

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

var (
	ErrInvalidWeekday    = errors.New("星期格式错误")
	ErrStationNotVisible = errors.New("只能对可见的工位排序")
	ErrInvalidConfig     = errors.New("工位配置不合法")
)

// Week 保存一周七天的工位配置，所有修改都在值拷贝上进行
type Week struct {
	days map[domain.Weekday]*domain.StationDailyConfig
}

// NewWeek 缺少的星期会补上空配置
func NewWeek(configs []domain.StationDailyConfig) *Week {
	w := &Week{days: make(map[domain.Weekday]*domain.StationDailyConfig, len(domain.Weekdays))}
	for _, d := range domain.Weekdays {
		w.days[d] = &domain.StationDailyConfig{Weekday: d, VisibleStationIDs: []string{}, StationOrder: []string{}}
	}
	for _, c := range configs {
		if _, ok := w.days[c.Weekday]; !ok {
			continue
		}
		cp := c.Clone()
		w.days[c.Weekday] = &cp
	}
	return w
}

func (w *Week) day(d domain.Weekday) (*domain.StationDailyConfig, error) {
	c, ok := w.days[d]
	if !ok {
		return nil, ErrInvalidWeekday
	}
	return c, nil
}

func (w *Week) Day(d domain.Weekday) (domain.StationDailyConfig, error) {
	c, err := w.day(d)
	if err != nil {
		return domain.StationDailyConfig{}, err
	}
	return c.Clone(), nil
}

// Configs 按照周日到周六的顺序返回
func (w *Week) Configs() []domain.StationDailyConfig {
	out := make([]domain.StationDailyConfig, 0, len(domain.Weekdays))
	for _, d := range domain.Weekdays {
		out = append(out, w.days[d].Clone())
	}
	return out
}

// ToggleVisibility 显示时追加到两个列表的末尾，隐藏时从两个列表中删除
func (w *Week) ToggleVisibility(d domain.Weekday, stationID string, visible bool) error {
	c, err := w.day(d)
	if err != nil {
		return err
	}

	if visible {
		if !slices.Contains(c.VisibleStationIDs, stationID) {
			c.VisibleStationIDs = append(c.VisibleStationIDs, stationID)
		}
		if !slices.Contains(c.StationOrder, stationID) {
			c.StationOrder = append(c.StationOrder, stationID)
		}
		return nil
	}

	c.VisibleStationIDs = slices.DeleteFunc(c.VisibleStationIDs, func(id string) bool { return id == stationID })
	c.StationOrder = slices.DeleteFunc(c.StationOrder, func(id string) bool { return id == stationID })
	return nil
}

// VisibleInOrder 返回按排序列表排列的可见工位
func VisibleInOrder(c *domain.StationDailyConfig) []string {
	seq := make([]string, 0, len(c.VisibleStationIDs))
	for _, id := range c.StationOrder {
		if slices.Contains(c.VisibleStationIDs, id) && !slices.Contains(seq, id) {
			seq = append(seq, id)
		}
	}
	return seq
}

// Reorder 对应拖拽结束事件，把 activeID 移到 overID 所在的位置
func (w *Week) Reorder(d domain.Weekday, activeID, overID string) error {
	c, err := w.day(d)
	if err != nil {
		return err
	}
	if activeID == overID {
		return nil
	}

	seq := VisibleInOrder(c)
	from := slices.Index(seq, activeID)
	to := slices.Index(seq, overID)
	if from < 0 || to < 0 {
		return ErrStationNotVisible
	}

	seq = slices.Delete(seq, from, from+1)
	seq = slices.Insert(seq, to, activeID)

	// 只保留仍然可见的工位
	order := make([]string, 0, len(seq))
	for _, id := range seq {
		if slices.Contains(c.VisibleStationIDs, id) {
			order = append(order, id)
		}
	}
	c.StationOrder = order
	return nil
}

// CopyDay 用源配置的拷贝覆盖每一个目标
func (w *Week) CopyDay(src domain.Weekday, targets []domain.Weekday) error {
	s, err := w.day(src)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if _, err := w.day(t); err != nil {
			return err
		}
	}

	for _, t := range targets {
		if t == src {
			continue
		}
		cp := s.Clone()
		cp.Weekday = t
		w.days[t] = &cp
	}
	return nil
}

// Validate 检查每一天的可见工位是否都在排序列表中
func (w *Week) Validate() error {
	for _, d := range domain.Weekdays {
		c := w.days[d]
		for _, id := range c.VisibleStationIDs {
			if !slices.Contains(c.StationOrder, id) {
				return fmt.Errorf("%w：%s 的可见工位 %s 不在排序列表中", ErrInvalidConfig, d, id)
			}
		}
	}
	return nil
}

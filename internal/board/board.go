package board

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

var (
	ErrOperationInProgress = errors.New("该预约正在提交中，请稍候")
	ErrNoPendingResize     = errors.New("没有待确认的调整")
)

// ValidationError 在发起任何存储调用之前返回，不会修改缓存
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

type Store interface {
	GetSchedule(ctx context.Context, date time.Time, filter domain.ScheduleFilter) (*domain.Schedule, error)
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	MoveAppointment(ctx context.Context, cmd *domain.MoveCommand) (int32, error)
	UpdatePersonalAppointment(ctx context.Context, cmd *domain.PersonalCommand) (int32, error)
	CreatePersonalAppointment(ctx context.Context, appt *domain.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, msg *domain.NotificationMessage) error
}

type Options struct {
	Location    *time.Location
	MinDuration time.Duration
}

type Board struct {
	store       Store
	cache       SnapshotCache
	notifier    Notifier
	loc         *time.Location
	minDuration time.Duration

	mu        sync.Mutex
	inflight  map[string]struct{}
	pending   map[int64]*domain.PendingResize // managerID -> 待确认的调整
	dateLocks map[string]*sync.Mutex

	flushMu sync.RWMutex
	epoch   uint64 // 每次清空缓存加一
}

func New(store Store, cache SnapshotCache, notifier Notifier, opts Options) *Board {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MinDuration <= 0 {
		opts.MinDuration = DefaultMinDuration
	}

	return &Board{
		store:       store,
		cache:       cache,
		notifier:    notifier,
		loc:         opts.Location,
		minDuration: opts.MinDuration,
		inflight:    make(map[string]struct{}),
		pending:     make(map[int64]*domain.PendingResize),
		dateLocks:   make(map[string]*sync.Mutex),
	}
}

func (b *Board) Location() *time.Location {
	return b.loc
}

func (b *Board) dateKey(t time.Time) string {
	return domain.DateKey(t.In(b.loc))
}

// Schedule 返回某天的排班快照，缓存未命中时从数据库读取
func (b *Board) Schedule(ctx context.Context, date time.Time, filter domain.ScheduleFilter) (*domain.Schedule, error) {
	key := SnapshotKey{Date: b.dateKey(date), Filter: filter}

	if s, ok := b.cached(ctx, key); ok {
		return s, nil
	}

	// 读取数据库和写入缓存都在日期锁内完成，已提交的修改不会被旧的读取结果覆盖
	unlock := b.lockDates(key.Date)
	defer unlock()

	if s, ok := b.cached(ctx, key); ok {
		return s, nil
	}

	epoch := b.flushEpoch()

	s, err := b.store.GetSchedule(ctx, date.In(b.loc), filter)
	if err != nil {
		return nil, err
	}
	s.Date = key.Date
	s.Filter = filter

	b.flushMu.RLock()
	defer b.flushMu.RUnlock()

	// 读取期间缓存被清空过，说明工位已经变化，这次的结果不能写入缓存
	if b.epoch != epoch {
		return s, nil
	}
	if err := b.cache.Set(ctx, key, s); err != nil {
		slog.Warn("写入排班缓存失败", "date", key.Date, "filter", filter, "error", err)
	}

	return s, nil
}

func (b *Board) cached(ctx context.Context, key SnapshotKey) (*domain.Schedule, bool) {
	s, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("读取排班缓存失败", "date", key.Date, "filter", key.Filter, "error", err)
		return nil, false
	}
	return s, ok
}

func (b *Board) flushEpoch() uint64 {
	b.flushMu.RLock()
	defer b.flushMu.RUnlock()

	return b.epoch
}

// Invalidate 删除某天所有筛选条件下的缓存
func (b *Board) Invalidate(ctx context.Context, date time.Time) {
	d := b.dateKey(date)
	unlock := b.lockDates(d)
	defer unlock()

	b.invalidateDate(ctx, d)
}

// invalidateDate 调用方必须已经持有 d 的日期锁
func (b *Board) invalidateDate(ctx context.Context, d string) {
	for _, f := range domain.ScheduleFilters {
		if err := b.cache.Delete(ctx, SnapshotKey{Date: d, Filter: f}); err != nil {
			slog.Warn("删除排班缓存失败", "date", d, "filter", f, "error", err)
		}
	}
}

// InvalidateAll 在工位被修改后调用，所有日期的快照都需要重新加载
func (b *Board) InvalidateAll(ctx context.Context) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.epoch++
	if err := b.cache.Flush(ctx); err != nil {
		slog.Warn("清空排班缓存失败", "error", err)
	}
}

// acquire 保证同一个预约同时只有一个未完成的提交
func (b *Board) acquire(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, busy := b.inflight[id]; busy {
		return ErrOperationInProgress
	}
	b.inflight[id] = struct{}{}
	return nil
}

func (b *Board) release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.inflight, id)
}

// lockDates 按日期加锁，防止同一天的两次修改互相覆盖对方的快照
func (b *Board) lockDates(dates ...string) func() {
	dates = slices.Clone(dates)
	slices.Sort(dates)
	dates = slices.Compact(dates)

	b.mu.Lock()
	locks := make([]*sync.Mutex, 0, len(dates))
	for _, d := range dates {
		l, ok := b.dateLocks[d]
		if !ok {
			l = &sync.Mutex{}
			b.dateLocks[d] = l
		}
		locks = append(locks, l)
	}
	b.mu.Unlock()

	for _, l := range locks {
		l.Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

type snapshots map[SnapshotKey]*domain.Schedule

// capture 取出给定日期下所有已缓存的快照
func (b *Board) capture(ctx context.Context, dates ...string) (snapshots, error) {
	snaps := make(snapshots)
	for _, d := range dates {
		for _, f := range domain.ScheduleFilters {
			key := SnapshotKey{Date: d, Filter: f}
			if _, seen := snaps[key]; seen {
				continue
			}
			s, ok, err := b.cache.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if ok {
				snaps[key] = s
			}
		}
	}
	return snaps, nil
}

func (b *Board) restore(ctx context.Context, snaps snapshots) error {
	var errs []error
	for key, s := range snaps {
		if err := b.cache.Set(ctx, key, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// place 把 appt 的最新状态写入所有已捕获的快照中，apptID 对应的旧条目会被移除
func (b *Board) place(ctx context.Context, snaps snapshots, appt *domain.Appointment) error {
	for key, original := range snaps {
		s := original.Clone()
		placeAppointment(s, appt, b.loc)
		if err := b.cache.Set(ctx, key, s); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) remove(ctx context.Context, snaps snapshots, id string) error {
	for key, original := range snaps {
		s := original.Clone()
		if i, ok := s.FindAppointment(id); ok {
			s.Appointments = slices.Delete(s.Appointments, i, i+1)
		}
		if err := b.cache.Set(ctx, key, s); err != nil {
			return err
		}
	}
	return nil
}

// placeAppointment 原地更新快照；如果预约移到了别的日期或者不再符合筛选条件，就从快照中移除
func placeAppointment(s *domain.Schedule, appt *domain.Appointment, loc *time.Location) {
	belongs := s.Date == domain.DateKey(appt.StartAt.In(loc)) && s.Filter.Matches(appt.ServiceType)

	i, exists := s.FindAppointment(appt.ID)
	switch {
	case exists && belongs:
		s.Appointments[i] = *appt
	case exists && !belongs:
		s.Appointments = slices.Delete(s.Appointments, i, i+1)
	case !exists && belongs:
		s.Appointments = append(s.Appointments, *appt)
	}
}

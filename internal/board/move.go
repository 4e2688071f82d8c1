package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type MoveRequest struct {
	AppointmentID string
	Category      domain.AppointmentCategory
	OldStationID  string
	OldStartAt    time.Time
	OldEndAt      time.Time
	NewStationID  string
	NewStartAt    *time.Time
	NewEndAt      *time.Time
	HourSelection *string // 只有日托预约可以只选择小时，日期沿用原预约
	IsTrial       *bool
	Notify        bool
}

type MoveResult struct {
	Appointment *domain.Appointment `json:"appointment"`
	State       TxState             `json:"state"`
	Warning     string              `json:"warning,omitempty"`
}

const notifyWarning = "预约已更新，但通知客户失败"

// Move 先乐观地修改缓存中的快照，再提交到数据库，提交失败时恢复快照
func (b *Board) Move(ctx context.Context, req *MoveRequest) (*MoveResult, error) {
	if req.NewStationID == "" {
		return nil, invalid("请选择工位")
	}
	if req.HourSelection == nil && req.NewStartAt == nil {
		return nil, invalid("请选择开始时间")
	}

	if err := b.acquire(req.AppointmentID); err != nil {
		return nil, err
	}
	defer b.release(req.AppointmentID)

	current, err := b.store.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if req.Category != "" && req.Category != current.Category() {
		return nil, invalid("预约类型不匹配")
	}

	start, end, err := b.resolveTarget(current, req)
	if err != nil {
		return nil, err
	}

	next := *current
	next.StationID = req.NewStationID
	next.StartAt = start
	next.EndAt = end
	if current.Category() == domain.CategoryDaycare {
		if req.HourSelection != nil {
			next.HourSelection = req.HourSelection
		}
		if req.IsTrial != nil {
			next.IsTrial = *req.IsTrial
		}
	}

	cmd := &domain.MoveCommand{
		AppointmentID:   current.ID,
		Category:        current.Category(),
		ExpectedVersion: current.Version,
		OldStationID:    req.OldStationID,
		OldStartAt:      req.OldStartAt,
		OldEndAt:        req.OldEndAt,
		NewStationID:    next.StationID,
		NewStartAt:      next.StartAt,
		NewEndAt:        next.EndAt,
	}
	// 客户端没有带上旧值时以数据库中的值为准
	if cmd.OldStationID == "" {
		cmd.OldStationID = current.StationID
	}
	if cmd.OldStartAt.IsZero() {
		cmd.OldStartAt = current.StartAt
	}
	if cmd.OldEndAt.IsZero() {
		cmd.OldEndAt = current.EndAt
	}
	if cmd.Category == domain.CategoryDaycare {
		cmd.HourSelection = next.HourSelection
		cmd.IsTrial = &next.IsTrial
	}

	state, err := b.commitPlacement(ctx, current, &next, func(ctx context.Context) error {
		version, err := b.store.MoveAppointment(ctx, cmd)
		if err != nil {
			return err
		}
		next.Version = version
		// 服务类型跟随新工位，以数据库中的记录为准
		if fresh, err := b.store.GetAppointment(ctx, cmd.AppointmentID); err == nil {
			next = *fresh
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &MoveResult{Appointment: &next, State: state}
	if req.Notify {
		if err := b.notifyMoved(ctx, &next); err != nil {
			slog.Warn("通知客户失败", "appointment", next.ID, "error", err)
			result.Warning = notifyWarning
		}
	}

	return result, nil
}

func (b *Board) resolveTarget(current *domain.Appointment, req *MoveRequest) (time.Time, time.Time, error) {
	var start time.Time
	if req.HourSelection != nil {
		if current.Category() != domain.CategoryDaycare {
			return time.Time{}, time.Time{}, invalid("只有日托预约可以按小时选择时间")
		}
		t, err := CombineDateAndHour(current.StartAt, *req.HourSelection, b.loc)
		if err != nil {
			return time.Time{}, time.Time{}, invalid(err.Error())
		}
		start = t
	} else {
		start = *req.NewStartAt
	}

	if req.NewEndAt != nil {
		return start, ClampEnd(start, *req.NewEndAt, b.minDuration), nil
	}
	return start, ShiftEnd(current.StartAt, current.EndAt, start, b.minDuration), nil
}

// commitPlacement 是移动、调整和编辑共用的乐观提交流程
func (b *Board) commitPlacement(ctx context.Context, before, after *domain.Appointment, commit func(ctx context.Context) error) (TxState, error) {
	dates := []string{b.dateKey(before.StartAt), b.dateKey(after.StartAt)}
	unlock := b.lockDates(dates...)
	defer unlock()

	var snaps snapshots
	tx := Transact[snapshots]{
		Capture: func(ctx context.Context) (snapshots, error) {
			s, err := b.capture(ctx, dates...)
			snaps = s
			return s, err
		},
		Apply: func(ctx context.Context) error {
			return b.place(ctx, snaps, after)
		},
		Commit: commit,
		Restore: func(ctx context.Context, s snapshots) error {
			return b.restore(ctx, s)
		},
	}

	state, err := tx.Run(ctx)
	if err != nil {
		return state, err
	}

	// 提交成功后版本号已经变化，需要同步到缓存中
	if err := b.place(ctx, snaps, after); err != nil {
		slog.Warn("同步排班缓存失败", "appointment", after.ID, "error", err)
		for _, d := range dates {
			b.invalidateDate(ctx, d)
		}
	}

	return state, nil
}

func (b *Board) notifyMoved(ctx context.Context, appt *domain.Appointment) error {
	if b.notifier == nil || appt.IsPersonal {
		return nil
	}
	if appt.CustomerPhone == "" && appt.CustomerEmail == "" {
		return nil
	}

	start := appt.StartAt.In(b.loc)
	return b.notifier.Notify(ctx, &domain.NotificationMessage{
		ID:   uuid.NewString(),
		Type: domain.NotificationAppointmentMoved,
		To: domain.NotificationRecipient{
			Name:  appt.CustomerName,
			Phone: appt.CustomerPhone,
			Email: appt.CustomerEmail,
		},
		Data: domain.AppointmentMovedData{
			CustomerName: appt.CustomerName,
			DogName:      appt.DogName,
			Date:         start.Format(domain.DateLayout),
			Time:         start.Format("15:04"),
		},
	})
}

package board

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type PersonalUpdate struct {
	AppointmentID string
	Name          string
	Description   string
	StationID     string
	StartAt       *time.Time
	EndAt         *time.Time
}

// UpdatePersonal 修改内部预约（没有关联客户的预约）
func (b *Board) UpdatePersonal(ctx context.Context, managerID int64, req *PersonalUpdate) (*MoveResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("名称不能为空")
	}
	if req.StationID == "" || req.StartAt == nil {
		return nil, invalid("请选择工位和时间")
	}

	// 如果该预约有待确认的调整，则以调整后的时长为准
	start := *req.StartAt
	var end time.Time
	pending := b.PendingResize(managerID)
	switch {
	case pending != nil && pending.AppointmentID == req.AppointmentID:
		end = start.Add(pending.ProposedDuration)
	case req.EndAt != nil:
		end = *req.EndAt
	default:
		return nil, invalid("请选择工位和时间")
	}
	if !end.After(start) {
		return nil, invalid("结束时间必须晚于开始时间")
	}

	if err := b.acquire(req.AppointmentID); err != nil {
		return nil, err
	}
	defer b.release(req.AppointmentID)

	current, err := b.store.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !current.IsPersonal {
		return nil, invalid("该预约不是内部预约")
	}

	next := *current
	next.PersonalName = name
	next.Description = req.Description
	next.StationID = req.StationID
	next.StartAt = start
	next.EndAt = end

	cmd := &domain.PersonalCommand{
		AppointmentID:   current.ID,
		ExpectedVersion: current.Version,
		Name:            next.PersonalName,
		Description:     next.Description,
		StationID:       next.StationID,
		StartAt:         next.StartAt,
		EndAt:           next.EndAt,
	}

	state, err := b.commitPlacement(ctx, current, &next, func(ctx context.Context) error {
		version, err := b.store.UpdatePersonalAppointment(ctx, cmd)
		if err != nil {
			return err
		}
		next.Version = version
		// 换了工位之后服务类型跟随新工位，重新读取一次
		if fresh, err := b.store.GetAppointment(ctx, cmd.AppointmentID); err == nil {
			next = *fresh
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.takePendingFor(managerID, current.ID)

	return &MoveResult{Appointment: &next, State: state}, nil
}

// CancelPersonalEdit 关闭编辑框时调用，撤销该预约上待确认的调整
func (b *Board) CancelPersonalEdit(ctx context.Context, managerID int64, appointmentID string) error {
	pending := b.takePendingFor(managerID, appointmentID)
	if pending == nil {
		return nil
	}
	return b.revertPending(ctx, pending)
}

type PersonalCreate struct {
	Name        string
	Description string
	StationID   string
	StartAt     time.Time
	EndAt       time.Time
}

func (b *Board) CreatePersonal(ctx context.Context, req *PersonalCreate) (*domain.Appointment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("名称不能为空")
	}
	if req.StationID == "" || req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, invalid("请选择工位和时间")
	}

	appt := &domain.Appointment{
		StationID:    req.StationID,
		StartAt:      req.StartAt,
		EndAt:        ClampEnd(req.StartAt, req.EndAt, b.minDuration),
		IsPersonal:   true,
		PersonalName: name,
		Description:  req.Description,
	}

	if err := b.store.CreatePersonalAppointment(ctx, appt); err != nil {
		return nil, err
	}

	b.Invalidate(ctx, appt.StartAt)

	return appt, nil
}

// DeleteAppointment 是唯一会真正删除预约的操作
func (b *Board) DeleteAppointment(ctx context.Context, appointmentID string) error {
	if err := b.acquire(appointmentID); err != nil {
		return err
	}
	defer b.release(appointmentID)

	current, err := b.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := b.store.DeleteAppointment(ctx, appointmentID); err != nil {
		return err
	}

	d := b.dateKey(current.StartAt)
	unlock := b.lockDates(d)
	defer unlock()

	// 数据库中已经删除，缓存同步失败时直接丢弃当天的缓存
	snaps, err := b.capture(ctx, d)
	if err == nil {
		err = b.remove(ctx, snaps, appointmentID)
	}
	if err != nil {
		slog.Warn("同步排班缓存失败", "appointment", appointmentID, "error", err)
		b.invalidateDate(ctx, d)
	}

	return nil
}

package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

// BeginResize 在缓存中预览新的结束时间，并记录下来等待确认或取消
func (b *Board) BeginResize(ctx context.Context, managerID int64, appointmentID string, newEnd time.Time) (*domain.PendingResize, error) {
	if err := b.acquire(appointmentID); err != nil {
		return nil, err
	}
	defer b.release(appointmentID)

	// 每个管理员同时只能有一个待确认的调整
	if prev := b.takePending(managerID); prev != nil {
		if err := b.revertPending(ctx, prev); err != nil {
			slog.Warn("恢复上一次调整失败", "appointment", prev.AppointmentID, "error", err)
		}
	}

	current, err := b.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	end := ClampEnd(current.StartAt, newEnd, b.minDuration)
	pending := &domain.PendingResize{
		AppointmentID:    current.ID,
		OriginalEnd:      current.EndAt,
		ProposedEnd:      end,
		OriginalDuration: current.Duration(),
		ProposedDuration: end.Sub(current.StartAt),
	}

	preview := *current
	preview.EndAt = end
	if err := b.preview(ctx, &preview); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.pending[managerID] = pending
	b.mu.Unlock()

	return pending, nil
}

// ConfirmResize 把待确认的调整提交到数据库
func (b *Board) ConfirmResize(ctx context.Context, managerID int64, notify bool) (*MoveResult, error) {
	pending := b.PendingResize(managerID)
	if pending == nil {
		return nil, ErrNoPendingResize
	}

	// 读取失败时保留待确认的调整，管理员仍然可以取消并撤销预览
	current, err := b.store.GetAppointment(ctx, pending.AppointmentID)
	if err != nil {
		return nil, err
	}
	if b.takePendingFor(managerID, pending.AppointmentID) == nil {
		return nil, ErrNoPendingResize
	}

	start := current.StartAt
	end := pending.ProposedEnd
	res, err := b.Move(ctx, &MoveRequest{
		AppointmentID: current.ID,
		Category:      current.Category(),
		OldStationID:  current.StationID,
		OldStartAt:    current.StartAt,
		OldEndAt:      current.EndAt,
		NewStationID:  current.StationID,
		NewStartAt:    &start,
		NewEndAt:      &end,
		Notify:        notify,
	})
	if err != nil {
		// 提交失败时 Move 只会恢复到预览状态，这里还需要撤销预览
		if rerr := b.revertPending(ctx, pending); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}

	return res, nil
}

// CancelResize 撤销预览并清除待确认的调整
func (b *Board) CancelResize(ctx context.Context, managerID int64) error {
	pending := b.takePending(managerID)
	if pending == nil {
		return nil
	}
	return b.revertPending(ctx, pending)
}

// PendingResize 返回管理员当前待确认的调整
func (b *Board) PendingResize(managerID int64) *domain.PendingResize {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[managerID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (b *Board) takePending(managerID int64) *domain.PendingResize {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[managerID]
	if !ok {
		return nil
	}
	delete(b.pending, managerID)
	return p
}

// takePendingFor 只有当待确认的调整属于 appointmentID 时才取出
func (b *Board) takePendingFor(managerID int64, appointmentID string) *domain.PendingResize {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[managerID]
	if !ok || p.AppointmentID != appointmentID {
		return nil
	}
	delete(b.pending, managerID)
	return p
}

// revertPending 预览从未提交过，所以数据库中的记录就是调整前的状态
func (b *Board) revertPending(ctx context.Context, pending *domain.PendingResize) error {
	current, err := b.store.GetAppointment(ctx, pending.AppointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil
		}
		return err
	}
	return b.preview(ctx, current)
}

// preview 只修改缓存，不提交
func (b *Board) preview(ctx context.Context, appt *domain.Appointment) error {
	d := b.dateKey(appt.StartAt)
	unlock := b.lockDates(d)
	defer unlock()

	snaps, err := b.capture(ctx, d)
	if err != nil {
		return err
	}
	return b.place(ctx, snaps, appt)
}

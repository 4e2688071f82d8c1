package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/board"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func (h *Handler) MoveAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category      string     `json:"category" validate:"omitempty,oneof=grooming daycare personal"`
		OldStationID  string     `json:"oldStationID" validate:"omitempty,uuid"`
		OldStartAt    *time.Time `json:"oldStartAt"`
		OldEndAt      *time.Time `json:"oldEndAt"`
		NewStationID  string     `json:"newStationID" validate:"required,uuid"`
		NewStartAt    *time.Time `json:"newStartAt" validate:"required_without=HourSelection"`
		NewEndAt      *time.Time `json:"newEndAt"`
		HourSelection *string    `json:"hourSelection" validate:"omitempty,hhmm"`
		IsTrial       *bool      `json:"isTrial"`
		Notify        bool       `json:"notify"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	move := &board.MoveRequest{
		AppointmentID: r.Context().Value(AppointmentIDCtxKey).(string),
		Category:      domain.AppointmentCategory(req.Category),
		OldStationID:  req.OldStationID,
		NewStationID:  req.NewStationID,
		NewStartAt:    req.NewStartAt,
		NewEndAt:      req.NewEndAt,
		HourSelection: req.HourSelection,
		IsTrial:       req.IsTrial,
		Notify:        req.Notify,
	}
	if req.OldStartAt != nil {
		move.OldStartAt = *req.OldStartAt
	}
	if req.OldEndAt != nil {
		move.OldEndAt = *req.OldEndAt
	}

	res, err := h.board.Move(r.Context(), move)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动预约成功", res)
}

func (h *Handler) BeginResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEndAt time.Time `json:"newEndAt" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	pending, err := h.board.BeginResize(r.Context(), managerID, r.Context().Value(AppointmentIDCtxKey).(string), req.NewEndAt)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "请确认新的结束时间", pending)
}

func (h *Handler) GetPendingResize(w http.ResponseWriter, r *http.Request) {
	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待确认的调整成功", h.board.PendingResize(managerID))
}

func (h *Handler) ConfirmResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notify bool `json:"notify"`
	}

	// 请求体可以为空
	if r.ContentLength != 0 {
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	res, err := h.board.ConfirmResize(r.Context(), managerID, req.Notify)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "调整预约时长成功", res)
}

func (h *Handler) CancelResize(w http.ResponseWriter, r *http.Request) {
	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.board.CancelResize(r.Context(), managerID); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "已取消调整", nil)
}

func (h *Handler) UpdatePersonalAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string     `json:"name" validate:"required,max=100"`
		Description string     `json:"description" validate:"max=500"`
		StationID   string     `json:"stationID" validate:"required,uuid"`
		StartAt     *time.Time `json:"startAt" validate:"required"`
		EndAt       *time.Time `json:"endAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	res, err := h.board.UpdatePersonal(r.Context(), managerID, &board.PersonalUpdate{
		AppointmentID: r.Context().Value(AppointmentIDCtxKey).(string),
		Name:          req.Name,
		Description:   req.Description,
		StationID:     req.StationID,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
	})
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新内部预约成功", res)
}

func (h *Handler) CancelPersonalEdit(w http.ResponseWriter, r *http.Request) {
	managerID, err := h.managerID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.board.CancelPersonalEdit(r.Context(), managerID, r.Context().Value(AppointmentIDCtxKey).(string)); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "已取消编辑", nil)
}

func (h *Handler) CreatePersonalAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string    `json:"name" validate:"required,max=100"`
		Description string    `json:"description" validate:"max=500"`
		StationID   string    `json:"stationID" validate:"required,uuid"`
		StartAt     time.Time `json:"startAt" validate:"required"`
		EndAt       time.Time `json:"endAt" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	appt, err := h.board.CreatePersonal(r.Context(), &board.PersonalCreate{
		Name:        req.Name,
		Description: req.Description,
		StationID:   req.StationID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建内部预约成功", appt)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.board.DeleteAppointment(r.Context(), r.Context().Value(AppointmentIDCtxKey).(string)); err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除预约成功", nil)
}

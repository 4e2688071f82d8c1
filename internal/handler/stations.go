package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func (h *Handler) GetAllStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.repository.GetAllStations(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有工位成功", stations)
}

func (h *Handler) GetStation(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(StationCtx).(*domain.Station)

	h.successResponse(w, r, "获取工位成功", st)
}

func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name" validate:"required,max=50"`
		ServiceType  string `json:"serviceType" validate:"required,oneof=grooming daycare"`
		IsActive     *bool  `json:"isActive"`
		DisplayOrder int32  `json:"displayOrder" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.Station{
		Name:         req.Name,
		ServiceType:  domain.ServiceType(req.ServiceType),
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := h.repository.CreateStation(r.Context(), st); err != nil {
		h.stationWriteError(w, r, err)
		return
	}

	h.board.InvalidateAll(r.Context())

	h.successResponse(w, r, "创建工位成功", st)
}

func (h *Handler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name" validate:"omitempty,max=50"`
		ServiceType  *string `json:"serviceType" validate:"omitempty,oneof=grooming daycare"`
		IsActive     *bool   `json:"isActive"`
		DisplayOrder *int32  `json:"displayOrder" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := r.Context().Value(StationCtx).(*domain.Station)

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.ServiceType != nil {
		st.ServiceType = domain.ServiceType(*req.ServiceType)
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		st.DisplayOrder = *req.DisplayOrder
	}

	if err := h.repository.UpdateStation(r.Context(), st); err != nil {
		h.stationWriteError(w, r, err)
		return
	}

	h.board.InvalidateAll(r.Context())

	h.successResponse(w, r, "更新工位成功", st)
}

func (h *Handler) stationWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "stations_name_key":
			h.errorResponse(w, r, "工位名称已存在")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "工位已被其他人修改，请刷新后重试")
	default:
		h.internalServerError(w, r, err)
	}
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func (h *Handler) GetStationConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.stationConfigs.Week(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工位配置成功", configs)
}

func (h *Handler) SaveStationConfigs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Configs []struct {
			Weekday           string   `json:"weekday" validate:"required,weekday"`
			VisibleStationIDs []string `json:"visibleStationIDs" validate:"dive,uuid"`
			StationOrder      []string `json:"stationOrder" validate:"dive,uuid"`
		} `json:"configs" validate:"required,max=7,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	configs := make([]domain.StationDailyConfig, 0, len(req.Configs))
	for _, c := range req.Configs {
		cfg := domain.StationDailyConfig{
			Weekday:           domain.Weekday(c.Weekday),
			VisibleStationIDs: c.VisibleStationIDs,
			StationOrder:      c.StationOrder,
		}
		if cfg.VisibleStationIDs == nil {
			cfg.VisibleStationIDs = []string{}
		}
		if cfg.StationOrder == nil {
			cfg.StationOrder = []string{}
		}
		configs = append(configs, cfg)
	}

	saved, err := h.stationConfigs.Save(r.Context(), configs)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存工位配置成功", saved)
}

func (h *Handler) ToggleStationVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekday   string `validate:"required,weekday"`
		StationID string `json:"stationID" validate:"required,uuid"`
		Visible   bool   `json:"visible"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Weekday = chi.URLParam(r, "weekday")
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	configs, err := h.stationConfigs.ToggleVisibility(r.Context(), domain.Weekday(req.Weekday), req.StationID, req.Visible)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工位可见性成功", configs)
}

func (h *Handler) ReorderStations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekday  string `validate:"required,weekday"`
		ActiveID string `json:"activeID" validate:"required,uuid"`
		OverID   string `json:"overID" validate:"required,uuid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Weekday = chi.URLParam(r, "weekday")
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	configs, err := h.stationConfigs.Reorder(r.Context(), domain.Weekday(req.Weekday), req.ActiveID, req.OverID)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工位顺序成功", configs)
}

func (h *Handler) CopyStationConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source  string   `json:"source" validate:"required,weekday"`
		Targets []string `json:"targets" validate:"required,min=1,dive,weekday"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	targets := make([]domain.Weekday, 0, len(req.Targets))
	for _, t := range req.Targets {
		targets = append(targets, domain.Weekday(t))
	}

	configs, err := h.stationConfigs.CopyDay(r.Context(), domain.Weekday(req.Source), targets)
	if err != nil {
		h.boardError(w, r, err)
		return
	}

	h.successResponse(w, r, "复制工位配置成功", configs)
}

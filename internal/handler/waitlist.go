package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/waitlist"
)

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) GetWaitlist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := struct {
		Date          string   `validate:"omitempty,datetime=2006-01-02"`
		Scope         string   `validate:"omitempty,oneof=grooming daycare both"`
		Search        string   `validate:"max=100"`
		CustomerTypes []string `validate:"dive,uuid"`
		Categories    []string `validate:"dive,uuid"`
	}{
		Date:          q.Get("date"),
		Scope:         q.Get("scope"),
		Search:        q.Get("search"),
		CustomerTypes: splitList(q.Get("customerTypes")),
		Categories:    splitList(q.Get("categories")),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	view, err := h.waitlist.View(r.Context(), date, domain.WaitlistScope(req.Scope), &waitlist.Filter{
		Search:        req.Search,
		CustomerTypes: req.CustomerTypes,
		Categories:    req.Categories,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取候补列表成功", view)
}

func (h *Handler) DeleteWaitlistEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.errorResponse(w, r, "候补ID无效")
		return
	}

	if err := h.repository.DeleteWaitlistEntry(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "候补不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除候补成功", nil)
}

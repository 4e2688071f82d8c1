package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

// parseDate 按门店时区解析 yyyy-mm-dd，为空时取今天
func (h *Handler) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().In(h.board.Location()), nil
	}
	return time.ParseInLocation(domain.DateLayout, s, h.board.Location())
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date        string `validate:"omitempty,datetime=2006-01-02"`
		ServiceType string `validate:"omitempty,oneof=all grooming daycare"`
	}{
		Date:        r.URL.Query().Get("date"),
		ServiceType: r.URL.Query().Get("serviceType"),
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
	filter := domain.FilterAll
	if req.ServiceType != "" {
		filter = domain.ScheduleFilter(req.ServiceType)
	}

	s, err := h.board.Schedule(r.Context(), date, filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班成功", s)
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	userID, err := h.managerID(r)
	if err != nil {
		h.errorResponse(w, r, "无效的令牌")
		return
	}

	user, err := h.repository.GetUserByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "用户不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取个人信息成功", user)
}

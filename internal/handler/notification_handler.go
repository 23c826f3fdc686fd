package handler

import (
	"net/http"
	"strconv"

	"tutorbay/internal/middleware"
	"tutorbay/internal/repository"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "notifications", gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.MarkRead(uint(id), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "update failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "marked read", nil)
}

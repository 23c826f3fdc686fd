package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tutorbay/internal/middleware"
	"tutorbay/internal/repository"
	"tutorbay/internal/service"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WithdrawalHandler struct {
	withdrawalSvc  *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(withdrawalSvc *service.WithdrawalService, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc, withdrawalRepo: withdrawalRepo}
}

type withdrawRequest struct {
	AmountCents   int64  `json:"amount_cents" binding:"required,min=1"`
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
}

// Create initiates a withdrawal request against the user's wallet.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	w, err := h.withdrawalSvc.Initiate(userID, req.AmountCents, req.BankName, req.AccountNumber, req.AccountName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInsufficientFunds):
			response.Error(c, http.StatusBadRequest, err.Error(), "INSUFFICIENT_FUNDS")
		default:
			response.Error(c, http.StatusInternalServerError, "withdrawal failed", "INTERNAL_SERVER_ERROR")
		}
		return
	}
	response.OK(c, http.StatusCreated, "withdrawal initiated", w)
}

// Confirm advances a withdrawal to PROCESSING and debits the wallet. Admin only.
func (h *WithdrawalHandler) Confirm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("withdrawal_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid withdrawal id", "BAD_REQUEST")
		return
	}
	w, err := h.withdrawalSvc.Confirm(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "withdrawal not found", "NOT_FOUND")
		case errors.Is(err, service.ErrInvalidWithdrawalStatus):
			response.Error(c, http.StatusBadRequest, err.Error(), "INVALID_STATUS")
		case errors.Is(err, service.ErrInsufficientFunds):
			response.Error(c, http.StatusBadRequest, err.Error(), "INSUFFICIENT_FUNDS")
		default:
			response.Error(c, http.StatusInternalServerError, "confirmation failed", "INTERNAL_SERVER_ERROR")
		}
		return
	}
	response.OK(c, http.StatusOK, "withdrawal confirmed", w)
}

// List returns withdrawals filtered by status. Admin only.
func (h *WithdrawalHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.withdrawalRepo.ListByStatus(c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "withdrawals", gin.H{"withdrawals": list})
}

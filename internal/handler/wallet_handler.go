package handler

import (
	"net/http"
	"strconv"

	"tutorbay/internal/middleware"
	"tutorbay/internal/repository"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo}
}

// Get returns the current user's wallet with the last 20 transactions.
func (h *WalletHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "wallet error", "INTERNAL_SERVER_ERROR")
		return
	}
	txs, err := h.walletRepo.ListTransactions(userID, 20, 0)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "wallet error", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "wallet", gin.H{
		"balance_cents":   w.BalanceCents,
		"earned_cents":    w.EarnedCents,
		"withdrawn_cents": w.WithdrawnCents,
		"currency":        w.Currency,
		"transactions":    txs,
	})
}

// ListTransactions returns the user's ledger history, paginated.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	txs, err := h.walletRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "transactions", gin.H{"transactions": txs})
}

package handler

import (
	"errors"
	"net/http"

	"tutorbay/internal/middleware"
	"tutorbay/internal/service"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type initiateRequest struct {
	ItemID      uint   `json:"item_id" binding:"required"`
	ItemType    string `json:"item_type" binding:"required,oneof=COURSE SERVICE ONE_ON_ONE"`
	CallbackURL string `json:"callback_url"`
}

// Initiate opens a gateway session for the item and returns the hosted
// payment page details.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	p, init, err := h.paymentSvc.InitiateCardPayment(c.Request.Context(), userID, req.ItemType, req.ItemID, middleware.GetEmail(c), req.CallbackURL)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "payment initiated", gin.H{
		"payment_id":        p.ID,
		"amount_cents":      p.AmountCents,
		"currency":          p.Currency,
		"reference":         init.Reference,
		"authorization_url": init.AuthorizationURL,
	})
}

// InitiateDirect creates a pending payment without a gateway session.
func (h *PaymentHandler) InitiateDirect(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	p, err := h.paymentSvc.InitiatePayment(userID, req.ItemType, req.ItemID)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "payment initiated", gin.H{
		"payment_id":      p.ID,
		"transaction_ref": p.ID,
		"amount_cents":    p.AmountCents,
		"currency":        p.Currency,
		"item_type":       p.ItemType,
		"item_id":         p.ItemID,
	})
}

type verifyRequest struct {
	TransactionRef string `json:"transaction_ref" binding:"required"`
}

// Verify confirms a gateway reference and triggers fulfillment.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	result, err := h.paymentSvc.ValidatePayment(c.Request.Context(), userID, req.TransactionRef)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	msg := "payment validated"
	if result.AlreadyCompleted {
		msg = "payment already completed"
	}
	response.OK(c, http.StatusOK, msg, result)
}

func (h *PaymentHandler) writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrInvalidItemType):
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, service.ErrInvalidTransactionRef):
		response.Error(c, http.StatusBadRequest, err.Error(), "INVALID_TRANSACTION_REF")
	case errors.Is(err, service.ErrItemNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, service.ErrGatewayInit):
		response.Error(c, http.StatusInternalServerError, err.Error(), "INTERNAL_SERVER_ERROR")
	default:
		response.Error(c, http.StatusInternalServerError, "payment processing failed", "INTERNAL_SERVER_ERROR")
	}
}

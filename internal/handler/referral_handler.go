package handler

import (
	"net/http"
	"strconv"

	"tutorbay/internal/middleware"
	"tutorbay/internal/repository"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(referralRepo *repository.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{referralRepo: referralRepo}
}

// GetMyCode returns the authenticated user's referral code, creating one if it
// doesn't exist yet.
func (h *ReferralHandler) GetMyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rc, err := h.referralRepo.GetOrCreateCode(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not get referral code", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "referral code", gin.H{
		"code":       rc.Code,
		"is_active":  rc.IsActive,
		"created_at": rc.CreatedAt,
	})
}

// ListMyReferrals returns the users the authenticated user has referred and
// whether the one-time bonus has been earned for each.
func (h *ReferralHandler) ListMyReferrals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	referrals, err := h.referralRepo.ListByReferrerID(userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not list referrals", "INTERNAL_SERVER_ERROR")
		return
	}
	out := make([]gin.H, 0, len(referrals))
	for _, ref := range referrals {
		out = append(out, gin.H{
			"referred_user": gin.H{
				"username": ref.ReferredUser.Username,
				"role":     ref.ReferredUser.Role,
			},
			"reward_paid": ref.RewardPaid,
			"created_at":  ref.CreatedAt,
		})
	}
	response.OK(c, http.StatusOK, "referrals", gin.H{"referrals": out, "total": len(out)})
}

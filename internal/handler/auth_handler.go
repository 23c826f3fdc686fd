package handler

import (
	"errors"
	"net/http"

	"tutorbay/internal/service"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=STUDENT TUTOR"`
	ReferralCode string `json:"referral_code"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	u, access, refresh, err := h.authSvc.Register(req.Email, req.Username, req.Password, req.Role, req.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists), errors.Is(err, service.ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		default:
			response.Error(c, http.StatusInternalServerError, "registration failed", "INTERNAL_SERVER_ERROR")
		}
		return
	}
	response.OK(c, http.StatusCreated, "registered", gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	u, access, refresh, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			response.Error(c, http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
			return
		}
		response.Error(c, http.StatusInternalServerError, "login failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "logged in", gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	access, err := h.authSvc.Refresh(req.RefreshToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", "UNAUTHORIZED")
		return
	}
	response.OK(c, http.StatusOK, "token refreshed", gin.H{"access_token": access})
}

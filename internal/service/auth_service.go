package service

import (
	"errors"
	"strconv"

	"tutorbay/config"
	"tutorbay/internal/auth"
	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrInvalidRole    = errors.New("invalid role")
)

type AuthService struct {
	cfg          *config.Config
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, referralRepo *repository.ReferralRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, referralRepo: referralRepo}
}

// Register creates a user and, when a valid referral code is supplied, links
// the signup to its referrer. A bad code never fails registration.
func (s *AuthService) Register(email, username, password, role, referralCode string) (*models.User, string, string, error) {
	if role != domain.RoleStudent && role != domain.RoleTutor {
		return nil, "", "", ErrInvalidRole
	}
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	s.claimReferral(referralCode, u)
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) claimReferral(code string, newUser *models.User) {
	if code == "" {
		return
	}
	rc, err := s.referralRepo.GetByCode(code)
	if err != nil || rc.UserID == newUser.ID {
		return
	}
	if err := s.referralRepo.CreateReferral(&models.Referral{
		ReferrerID:     rc.UserID,
		ReferredUserID: newUser.ID,
	}); err != nil {
		zap.L().Warn("referral not recorded at signup",
			zap.Uint("referrer_id", rc.UserID), zap.Uint("user_id", newUser.ID), zap.Error(err))
	}
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(uint(id))
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
}

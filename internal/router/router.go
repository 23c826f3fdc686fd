package router

import (
	"time"

	"tutorbay/config"
	"tutorbay/internal/domain"
	"tutorbay/internal/handler"
	"tutorbay/internal/middleware"
	"tutorbay/internal/repository"
	"tutorbay/internal/service"
	"tutorbay/pkg/paystack"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gateway service.Gateway) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	if gateway == nil {
		gateway = paystack.NewClient(paystack.Config{
			BaseURL:   cfg.Paystack.BaseURL,
			SecretKey: cfg.Paystack.SecretKey,
		})
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, referralRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	earningsSvc := service.NewEarningsService(courseRepo, walletRepo, referralRepo, notifSvc)
	paymentSvc := service.NewPaymentService(paymentRepo, courseRepo, serviceRepo, userRepo, enrollRepo, subRepo, earningsSvc, notifSvc, gateway)
	withdrawalSvc := service.NewWithdrawalService(walletRepo, withdrawalRepo, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	walletHandler := handler.NewWalletHandler(walletRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, withdrawalRepo)
	courseHandler := handler.NewCourseHandler(courseRepo, serviceRepo)
	referralHandler := handler.NewReferralHandler(referralRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/courses", courseHandler.List)
		api.GET("/courses/:id", courseHandler.Get)
		api.POST("/courses", authMw, middleware.RequireRole(domain.RoleTutor), courseHandler.Create)
		api.GET("/services", courseHandler.ListServices)
		api.GET("/services/:id", courseHandler.GetService)

		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/initiate", paymentHandler.Initiate)
			payments.POST("/initiate-direct", paymentHandler.InitiateDirect)
			payments.POST("/verify", paymentHandler.Verify)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.Get)
			me.GET("/wallet/transactions", walletHandler.ListTransactions)
			me.POST("/wallet/withdraw", withdrawalHandler.Create)
			me.GET("/referral-code", referralHandler.GetMyCode)
			me.GET("/referrals", referralHandler.ListMyReferrals)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/withdrawals", withdrawalHandler.List)
			admin.POST("/withdrawals/:withdrawal_id/confirm", withdrawalHandler.Confirm)
		}
	}

	return r
}

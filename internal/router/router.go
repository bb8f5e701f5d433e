package router

import (
	"net/http"

	"studio8/config"
	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/handler"
	"studio8/internal/middleware"
	"studio8/internal/repository"
	"studio8/internal/service"
	"studio8/internal/ws"
	"studio8/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the external collaborators built by main. Cloud and FCM are nil when their
// credentials are not configured.
type Deps struct {
	Log     *logrus.Logger
	Cloud   cloudinary.Uploader
	FCM     *service.FCMService
	Limiter *middleware.IPRateLimiter
}

// Server is the wired application.
type Server struct {
	Engine   *gin.Engine
	Bookings *service.BookingService
	Notifier *service.NotificationService
	Hub      *ws.Hub
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.UseJSONFieldNames()
	logger := deps.Log
	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(cfg.Server.PublicRateLimit)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db)
	clientRepo := repository.NewClientRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	store := repository.NewSettlementStore(db)

	hub := ws.NewHub()

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, staffRepo, deps.FCM, hub, cfg.Booking.NotifyTimeout, logger)
	bookingSvc := service.NewBookingService(store, catalogRepo, settingRepo, notifSvc, service.BookingServiceConfig{
		Rules: booking.PricingRules{
			ExtraPersonCharge:  cfg.Booking.ExtraPersonCharge,
			GroupBaseHeadcount: cfg.Booking.GroupBaseHeadcount,
		},
		CodeAttempts: cfg.Booking.CodeAttempts,
	}, logger)
	authSvc := service.NewAuthService(cfg, staffRepo)

	// Handlers
	publicHandler := handler.NewPublicHandler(bookingSvc, catalogRepo, bookingRepo, clientRepo, settingRepo, logger)
	uploadHandler := handler.NewUploadHandler(deps.Cloud, cfg.Cloudinary.Folder, logger)
	authHandler := handler.NewAuthHandler(authSvc, staffRepo, auditRepo, logger)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo, logger)
	bookingHandler := handler.NewBookingHandler(bookingSvc, bookingRepo, txRepo, auditRepo, logger)
	catalogHandler := handler.NewCatalogHandler(catalogRepo, auditRepo, logger)
	loyaltyHandler := handler.NewLoyaltyHandler(settingRepo, clientRepo, bookingRepo, referralRepo, auditRepo, logger)
	financeHandler := handler.NewFinanceHandler(txRepo, dashboardRepo, logger)
	notificationHandler := handler.NewNotificationHandler(notifSvc, logger)
	activityHandler := handler.NewActivityHandler(auditRepo, logger)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.RateLimit(limiter))
	{
		public.GET("/catalog", publicHandler.Catalog)
		public.POST("/bookings", publicHandler.SubmitBooking)
		public.GET("/bookings/lookup", publicHandler.LookupBooking)
		public.POST("/bookings/:code/reschedule", publicHandler.RequestReschedule)
		public.GET("/loyalty/card", publicHandler.LoyaltyCard)
		public.GET("/referrals/:code", publicHandler.ValidateReferralCode)
		public.POST("/uploads/payment-proof", uploadHandler.UploadPaymentProof)
	}

	adminAuth := v1.Group("/admin/auth")
	adminAuth.Use(middleware.RateLimit(limiter))
	{
		adminAuth.POST("/login", authHandler.Login)
		adminAuth.GET("/google", googleOAuthHandler.Redirect)
		adminAuth.GET("/google/callback", googleOAuthHandler.Callback)
	}

	staff := v1.Group("/admin")
	staff.Use(
		middleware.AuthRequired(&cfg.JWT),
		middleware.RequireRole(domain.RoleAdmin, domain.RoleStaff),
		middleware.ActiveStaff(staffRepo),
	)
	{
		staff.GET("/me", authHandler.Me)
		staff.PUT("/me/password", authHandler.ChangePassword)
		staff.PUT("/me/fcm-token", authHandler.RegisterFCMToken)

		staff.GET("/dashboard", financeHandler.Dashboard)

		staff.GET("/bookings", bookingHandler.List)
		staff.GET("/bookings/schedule", bookingHandler.Schedule)
		staff.GET("/bookings/:id", bookingHandler.Get)
		staff.POST("/bookings/:id/confirm", bookingHandler.Confirm)
		staff.POST("/bookings/:id/start", bookingHandler.Start)
		staff.POST("/bookings/:id/complete", bookingHandler.Complete)
		staff.POST("/bookings/:id/cancel", bookingHandler.Cancel)
		staff.POST("/bookings/:id/reschedule/approve", bookingHandler.ApproveReschedule)
		staff.POST("/bookings/:id/reschedule/decline", bookingHandler.DeclineReschedule)
		staff.POST("/bookings/:id/payment-failed", bookingHandler.MarkPaymentFailed)

		staff.GET("/clients", loyaltyHandler.ListClients)
		staff.GET("/clients/:email", loyaltyHandler.GetClient)
		staff.GET("/referrals", loyaltyHandler.ListReferrals)

		staff.GET("/notifications", notificationHandler.List)
		staff.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		staff.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		staff.GET("/catalog/packages", catalogHandler.ListPackages)
		staff.GET("/catalog/add-ons", catalogHandler.ListAddOns)
	}

	admin := staff.Group("")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	{
		admin.POST("/catalog/packages", catalogHandler.CreatePackage)
		admin.PUT("/catalog/packages/:id", catalogHandler.UpdatePackage)
		admin.DELETE("/catalog/packages/:id", catalogHandler.DeletePackage)
		admin.POST("/catalog/add-ons", catalogHandler.CreateAddOn)
		admin.PUT("/catalog/add-ons/:id", catalogHandler.UpdateAddOn)
		admin.DELETE("/catalog/add-ons/:id", catalogHandler.DeleteAddOn)
		admin.POST("/catalog/images", uploadHandler.UploadCatalogImage)

		admin.GET("/settings/loyalty", loyaltyHandler.GetSettings)
		admin.PUT("/settings/loyalty", loyaltyHandler.UpdateSettings)
		admin.POST("/clients/:email/points", loyaltyHandler.AdjustPoints)

		admin.GET("/transactions", financeHandler.ListTransactions)
		admin.GET("/transactions/summary", financeHandler.Summary)

		admin.GET("/staff", authHandler.ListStaff)
		admin.POST("/staff", authHandler.CreateStaff)
		admin.PATCH("/staff/:id/active", authHandler.SetStaffActive)

		admin.GET("/activity", activityHandler.List)
	}

	r.GET("/ws/admin", ws.UpgradeAdminWS(&cfg.JWT, hub))

	return &Server{Engine: r, Bookings: bookingSvc, Notifier: notifSvc, Hub: hub}
}

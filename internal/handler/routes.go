package handler

import (
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth         *AuthHandler
	Member       *MemberHandler
	Loan         *LoanHandler
	Repayment    *RepaymentHandler
	Contribution *ContributionHandler
	Settings     *SettingsHandler
	Report       *ReportHandler
}

// RegisterRoutes sets up all API routes. Writes go through the rate limiter.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	limit := middleware.RateLimitMiddleware(rateLimiter)

	// Auth routes: token only, the member may not exist yet
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", h.Auth.Callback, limit)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Everything else needs a member of a group
	member := api.Group("")
	member.Use(authMiddleware.Authenticate(), authMiddleware.RequireMember())

	// Member routes
	members := member.Group("/members")
	members.GET("", h.Member.GetMembers)
	members.POST("", h.Member.AddMember, limit)
	members.PUT("/me", h.Member.UpdateProfile, limit)
	members.POST("/me/avatar", h.Member.UploadAvatar, limit)
	members.GET("/:id", h.Member.GetMember)
	members.GET("/:id/avatar", h.Member.GetAvatar)

	// Loan routes
	loans := member.Group("/loans")
	loans.POST("", h.Loan.CreateLoan, limit)
	loans.GET("", h.Loan.GetLoans)
	loans.POST("/preview", h.Loan.PreviewLoan)
	loans.GET("/:id", h.Loan.GetLoan)
	loans.GET("/:id/repayments", h.Repayment.GetRepayments)
	loans.POST("/:id/repayments", h.Repayment.RecordRepayment, limit)
	loans.POST("/:id/repayments/top-up", h.Repayment.TopUpRepayment, limit)

	// Contribution routes
	contributions := member.Group("/contributions")
	contributions.POST("", h.Contribution.RecordContribution, limit)
	contributions.GET("", h.Contribution.GetContributions)

	// Settings routes
	settings := member.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.PUT("", h.Settings.UpdateSettings, limit)

	// Report routes
	reports := member.Group("/reports")
	reports.GET("/members", h.Report.GetMemberSummaries)
	reports.GET("/loans", h.Report.GetLoanDetails)
	reports.GET("/repayments", h.Report.GetRepaymentMatrix)
	reports.GET("/contributions", h.Report.GetContributionMatrix)

	// Dashboard routes
	dashboard := member.Group("/dashboard")
	dashboard.GET("/summary", h.Report.GetDashboard)
}

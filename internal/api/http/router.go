package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/api/http/handlers"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Notifications  *handlers.NotificationsHandler
	Uploads        *handlers.UploadsHandler
	Assessments    *handlers.AssessmentsHandler
	Landing        *handlers.LandingHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	// Public surface: landing content, contact form, assessments.
	app.Get("/landing", cfg.Landing.Content)
	app.Post("/landing/contact", cfg.Landing.SubmitContact)
	app.Get("/assessments", cfg.Assessments.List)
	app.Post("/assessments/:id/submit", cfg.AuthMiddleware.Optional, cfg.Assessments.Submit)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Get("/accounts/me", cfg.Accounts.Me)
	protected.Patch("/accounts/me", cfg.Accounts.UpdateMe)
	admin := auth.RequireRole(domain.RoleAdmin)
	protected.Get("/accounts", admin, cfg.Accounts.ListUsers)
	protected.Get("/accounts/:id", cfg.Accounts.GetUser)
	protected.Put("/accounts/:id/role", admin, cfg.Accounts.ChangeRole)
	protected.Put("/accounts/:id/status", admin, cfg.Accounts.ChangeStatus)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Get("/tickets/:id/messages", cfg.Tickets.ListMessages)
	protected.Post("/tickets/:id/messages", cfg.Tickets.CreateMessage)
	protected.Get("/tickets/:id/attachments", cfg.Tickets.ListAttachments)
	protected.Post("/tickets/:id/attachments", cfg.Tickets.CreateAttachment)

	protected.Get("/categories", cfg.Categories.List)
	protected.Post("/categories", admin, cfg.Categories.Create)
	protected.Put("/categories/:id", admin, cfg.Categories.Rename)
	protected.Delete("/categories/:id", admin, cfg.Categories.Delete)

	protected.Get("/notifications", cfg.Notifications.List)
	protected.Get("/notifications/unread-count", cfg.Notifications.UnreadCount)
	protected.Post("/notifications/read-all", cfg.Notifications.MarkAllRead)
	protected.Post("/notifications/:id/read", cfg.Notifications.MarkRead)
	protected.Get("/notifications/preferences", cfg.Notifications.GetPreferences)
	protected.Put("/notifications/preferences", cfg.Notifications.UpdatePreferences)

	protected.Post("/uploads", cfg.Uploads.Upload)
	protected.Get("/uploads/:key", cfg.Uploads.Download)

	protected.Get("/assessments/results/:id", cfg.Assessments.GetResult)
	app.Get("/assessments/:id", cfg.Assessments.Get)

	staff := auth.RequireRole(domain.RoleAdmin, domain.RoleConsultant)
	protected.Get("/reports/templates", staff, cfg.Reports.ListTemplates)
	protected.Post("/reports/templates", staff, cfg.Reports.CreateTemplate)
	protected.Post("/reports/exports", admin, cfg.Reports.QueueExport)
	protected.Get("/reports/exports", admin, cfg.Reports.ListExports)
	protected.Get("/reports", staff, cfg.Reports.ListReports)
	protected.Post("/reports", staff, cfg.Reports.QueueReport)
	protected.Get("/reports/:id", staff, cfg.Reports.GetReport)

	protected.Put("/landing/sections", admin, cfg.Landing.UpsertSection)
	protected.Post("/landing/services", admin, cfg.Landing.AddServiceLine)
	protected.Post("/landing/success-cases", admin, cfg.Landing.AddSuccessCase)
	protected.Get("/landing/contact", admin, cfg.Landing.ListContactMessages)
}

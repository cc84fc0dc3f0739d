package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rentledger/backend/internal/interfaces/http/handler"
)

// Guards bundles the authentication and role middleware applied to the
// protected route groups.
type Guards struct {
	Auth       gin.HandlerFunc // Validates the bearer token
	OwnerOnly  gin.HandlerFunc // Restricts to the landlord role
	TenantOnly gin.HandlerFunc // Restricts to the tenant role
}

// AuthRoutes registers authentication and session endpoints
type AuthRoutes struct {
	Handler *handler.AuthHandler
	Users   *handler.UserHandler
	Guards  Guards
}

func (r *AuthRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", r.Handler.Register)
	auth.POST("/login", r.Handler.Login)
	auth.POST("/refresh", r.Handler.Refresh)

	session := auth.Group("")
	session.Use(r.Guards.Auth)
	session.POST("/logout", r.Handler.Logout)
	session.GET("/me", r.Handler.Me)
	session.POST("/change-password", r.Handler.ChangePassword)

	me := rg.Group("/me")
	me.Use(r.Guards.Auth)
	me.PUT("/profile", r.Users.UpdateProfile)
}

// UserRoutes registers landlord-side user administration endpoints
type UserRoutes struct {
	Handler *handler.UserHandler
	Guards  Guards
}

func (r *UserRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	users.GET("", r.Handler.List)
	users.GET("/tenants", r.Handler.ListTenants)
	users.GET("/:id", r.Handler.Get)
	users.POST("/:id/deactivate", r.Handler.Deactivate)
	users.POST("/:id/activate", r.Handler.Activate)
}

// PropertyRoutes registers building and room endpoints
type PropertyRoutes struct {
	Buildings *handler.BuildingHandler
	Rooms     *handler.RoomHandler
	Guards    Guards
}

func (r *PropertyRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	buildings := rg.Group("/buildings")
	buildings.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	buildings.POST("", r.Buildings.Create)
	buildings.GET("", r.Buildings.List)
	buildings.GET("/:id", r.Buildings.Get)
	buildings.PUT("/:id", r.Buildings.Update)
	buildings.DELETE("/:id", r.Buildings.Delete)

	// Available rooms are browsable by any authenticated user; everything
	// else about rooms is the landlord's business.
	rooms := rg.Group("/rooms")
	rooms.Use(r.Guards.Auth)
	rooms.GET("/available", r.Rooms.ListAvailable)
	rooms.GET("/:id", r.Rooms.Get)

	manage := rg.Group("/rooms")
	manage.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	manage.POST("", r.Rooms.Create)
	manage.GET("", r.Rooms.List)
	manage.PUT("/:id", r.Rooms.Update)
	manage.POST("/:id/maintenance", r.Rooms.EnterMaintenance)
	manage.DELETE("/:id/maintenance", r.Rooms.ExitMaintenance)
	manage.DELETE("/:id", r.Rooms.Delete)
}

// RentalRoutes registers rental request and contract endpoints
type RentalRoutes struct {
	Requests  *handler.RentalRequestHandler
	Contracts *handler.ContractHandler
	Readings  *handler.MeterReadingHandler
	Guards    Guards
}

func (r *RentalRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/rental-requests")
	requests.Use(r.Guards.Auth)
	requests.POST("", r.Guards.TenantOnly, r.Requests.Create)
	requests.GET("/mine", r.Guards.TenantOnly, r.Requests.ListMine)
	requests.POST("/:id/cancel", r.Guards.TenantOnly, r.Requests.Cancel)
	requests.GET("", r.Guards.OwnerOnly, r.Requests.List)
	requests.GET("/:id", r.Requests.Get)
	requests.POST("/:id/accept", r.Guards.OwnerOnly, r.Requests.Accept)
	requests.POST("/:id/decline", r.Guards.OwnerOnly, r.Requests.Decline)

	contracts := rg.Group("/contracts")
	contracts.Use(r.Guards.Auth)
	contracts.GET("/mine", r.Guards.TenantOnly, r.Contracts.ListMine)
	contracts.POST("", r.Guards.OwnerOnly, r.Contracts.Create)
	contracts.GET("", r.Guards.OwnerOnly, r.Contracts.List)
	contracts.GET("/:id", r.Contracts.Get)
	contracts.POST("/:id/end", r.Guards.OwnerOnly, r.Contracts.End)
	contracts.POST("/:id/suspend", r.Guards.OwnerOnly, r.Contracts.Suspend)
	contracts.POST("/:id/resume", r.Guards.OwnerOnly, r.Contracts.Resume)
	contracts.GET("/:id/readings", r.Readings.ListByContract)

	readings := rg.Group("/readings")
	readings.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	readings.POST("", r.Readings.Record)
	readings.GET("/:id", r.Readings.Get)
	readings.POST("/:id/correct", r.Readings.Correct)
}

// BillingRoutes registers invoice and payment endpoints
type BillingRoutes struct {
	Invoices *handler.InvoiceHandler
	Payments *handler.PaymentHandler
	Guards   Guards
}

func (r *BillingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.Use(r.Guards.Auth)
	invoices.POST("", r.Guards.OwnerOnly, r.Invoices.Generate)
	invoices.GET("", r.Guards.OwnerOnly, r.Invoices.List)
	invoices.POST("/sweep-overdue", r.Guards.OwnerOnly, r.Invoices.SweepOverdue)
	invoices.GET("/:id", r.Invoices.Get)
	invoices.POST("/:id/send", r.Guards.OwnerOnly, r.Invoices.Send)
	invoices.POST("/:id/cancel", r.Guards.OwnerOnly, r.Invoices.Cancel)
	invoices.POST("/:id/mark-paid", r.Guards.OwnerOnly, r.Invoices.MarkPaid)
	invoices.POST("/:id/mark-overdue", r.Guards.OwnerOnly, r.Invoices.MarkOverdue)
	invoices.PUT("/:id/fees", r.Guards.OwnerOnly, r.Invoices.UpdateFees)

	payments := rg.Group("/payments")
	payments.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	payments.POST("", r.Payments.Record)
	payments.GET("", r.Payments.List)
	payments.GET("/:id", r.Payments.Get)
	payments.POST("/:id/confirm", r.Payments.Confirm)
	payments.POST("/:id/fail", r.Payments.Fail)
}

// ReportRoutes registers reporting endpoints
type ReportRoutes struct {
	Handler *handler.ReportHandler
	Guards  Guards
}

func (r *ReportRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.Use(r.Guards.Auth, r.Guards.OwnerOnly)
	reports.GET("/revenue", r.Handler.Revenue)
	reports.GET("/arrears", r.Handler.Arrears)
}

// SystemRoutes registers unauthenticated system endpoints
type SystemRoutes struct {
	Handler *handler.SystemHandler
}

func (r *SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/info", r.Handler.GetSystemInfo)
	system.GET("/ping", r.Handler.Ping)
	system.GET("/health", r.Handler.Health)
}

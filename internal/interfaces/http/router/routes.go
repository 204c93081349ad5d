package router

import (
	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/interfaces/http/handler"
	"github.com/furnitureops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Customer   *handler.CustomerHandler
	Catalog    *handler.CatalogHandler
	Order      *handler.OrderHandler
	Production *handler.ProductionHandler
	Invoice    *handler.InvoiceHandler
	Task       *handler.TaskHandler
	Portal     *handler.PortalHandler
	Design     *handler.DesignHandler
	Automation *handler.AutomationHandler
	Prediction *handler.PredictionHandler
	Campaign   *handler.CampaignHandler
	Analytics  *handler.AnalyticsHandler
	Export     *handler.ExportHandler
	System     *handler.SystemHandler

	// LoginLimiter, when set, guards login and refresh
	LoginLimiter gin.HandlerFunc
}

// DomainGroups builds the route table. Routes marked Public still pass the
// JWT middleware unless its skip list names them.
func DomainGroups(h Handlers) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h),
		userRoutes(h),
		customerRoutes(h),
		catalogRoutes(h),
		orderRoutes(h),
		productionRoutes(h),
		invoiceRoutes(h),
		taskRoutes(h),
		portalRoutes(h),
		designRoutes(h),
		automationRoutes(h),
		predictionRoutes(h),
		campaignRoutes(h),
		analyticsRoutes(h),
		exportRoutes(h),
		systemRoutes(h),
	}
}

// RegisterAPI mounts the whole API on engine
func RegisterAPI(engine gin.IRouter, h Handlers) {
	Mount(engine, DomainGroups(h)...)
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	login := []gin.HandlerFunc{h.Auth.Login}
	refresh := []gin.HandlerFunc{h.Auth.RefreshToken}
	if h.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{h.LoginLimiter}, login...)
		refresh = append([]gin.HandlerFunc{h.LoginLimiter}, refresh...)
	}
	g.POST("/login", Public, login...)
	g.POST("/refresh", Public, refresh...)
	g.POST("/logout", Public, h.Auth.Logout)
	g.GET("/me", Public, h.Auth.GetCurrentUser)
	g.PUT("/password", Public, h.Auth.ChangePassword)
	return g
}

func userRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("users", "/users").Use(middleware.RequireRole(identity.RoleAdmin))
	g.POST("", Public, h.User.Create)
	g.GET("", Public, h.User.List)
	g.GET("/:id", Public, h.User.GetByID)
	g.PUT("/:id", Public, h.User.Update)
	g.DELETE("/:id", Public, h.User.Delete)
	g.POST("/:id/reset-password", Public, h.User.ResetPassword)
	return g
}

func customerRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("customers", "")
	c := g.Group("customers", "/customers")
	c.POST("", "customer:create", h.Customer.Create)
	c.GET("", "customer:read", h.Customer.List)
	c.GET("/:id", "customer:read", h.Customer.GetByID)
	c.PUT("/:id", "customer:update", h.Customer.Update)
	c.DELETE("/:id", "customer:delete", h.Customer.Delete)
	c.POST("/:id/contact", "customer:update", h.Customer.RecordContact)
	c.POST("/:id/activities", "customer:update", h.Customer.LogActivity)
	c.GET("/:id/activities", "customer:read", h.Customer.ListActivities)

	a := g.Group("activities", "/activities")
	a.DELETE("/:activityId", "customer:update", h.Customer.DeleteActivity)
	return g
}

func catalogRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("catalog", "")
	col := g.Group("collections", "/collections")
	col.POST("", "collection:create", h.Catalog.CreateCollection)
	col.GET("", "collection:read", h.Catalog.ListCollections)
	col.GET("/:id", "collection:read", h.Catalog.GetCollection)
	col.PUT("/:id", "collection:update", h.Catalog.UpdateCollection)
	col.DELETE("/:id", "collection:delete", h.Catalog.DeleteCollection)
	col.POST("/:id/activate", "collection:update", h.Catalog.ActivateCollection)
	col.POST("/:id/archive", "collection:update", h.Catalog.ArchiveCollection)
	col.GET("/:id/products", "product:read", h.Catalog.ListCollectionProducts)

	p := g.Group("products", "/products")
	p.POST("", "product:create", h.Catalog.CreateProduct)
	p.GET("", "product:read", h.Catalog.ListProducts)
	p.GET("/:id", "product:read", h.Catalog.GetProduct)
	p.PUT("/:id", "product:update", h.Catalog.UpdateProduct)
	p.DELETE("/:id", "product:delete", h.Catalog.DeleteProduct)
	return g
}

func orderRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("orders", "/orders")
	g.POST("", "order:create", h.Order.Create)
	g.GET("", "order:read", h.Order.List)
	g.GET("/:id", "order:read", h.Order.GetByID)
	g.PUT("/:id", "order:update", h.Order.Update)
	g.DELETE("/:id", "order:delete", h.Order.Delete)
	g.POST("/:id/confirm", "order:update", h.Order.Confirm)
	g.POST("/:id/start-production", "order:update", h.Order.StartProduction)
	g.POST("/:id/ready", "order:update", h.Order.MarkReady)
	g.POST("/:id/ship", "order:update", h.Order.Ship)
	g.POST("/:id/deliver", "order:update", h.Order.Deliver)
	g.POST("/:id/cancel", "order:update", h.Order.Cancel)
	g.GET("/:id/production", "production:read", h.Production.ListByOrder)
	return g
}

func productionRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("production", "/production")
	g.GET("", "production:read", h.Production.List)
	g.GET("/:id", "production:read", h.Production.GetByID)
	g.POST("/:id/advance", "production:update", h.Production.AdvanceStage)
	g.PUT("/:id/progress", "production:update", h.Production.UpdateProgress)
	g.PUT("/:id/assign", "production:update", h.Production.Assign)
	return g
}

func invoiceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("finance", "")
	inv := g.Group("invoices", "/invoices")
	inv.POST("", "invoice:create", h.Invoice.Create)
	inv.POST("/from-order", "invoice:create", h.Invoice.CreateFromOrder)
	inv.GET("", "invoice:read", h.Invoice.List)
	inv.GET("/:id", "invoice:read", h.Invoice.GetByID)
	inv.PUT("/:id", "invoice:update", h.Invoice.Update)
	inv.DELETE("/:id", "invoice:delete", h.Invoice.Delete)
	inv.POST("/:id/send", "invoice:update", h.Invoice.Send)
	inv.POST("/:id/void", "invoice:update", h.Invoice.Void)
	inv.POST("/:id/payments", "payment:create", h.Invoice.RecordPayment)
	inv.GET("/:id/payments", "payment:read", h.Invoice.ListInvoicePayments)
	inv.GET("/:id/pdf", "invoice:read", h.Invoice.DownloadPDF)
	inv.GET("/:id/pdf-link", "invoice:read", h.Invoice.PDFLink)
	inv.POST("/:id/signature", "invoice:update", h.Invoice.RequestSignature)

	g.Group("payments", "/payments").GET("", "payment:read", h.Invoice.ListPayments)

	// authenticated by the provider's HMAC signature, not a token
	g.Group("webhooks", "/webhooks").POST("/esign", Public, h.Invoice.SignatureWebhook)
	return g
}

func taskRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("tasks", "/tasks")
	g.POST("", "task:create", h.Task.Create)
	g.GET("", "task:read", h.Task.List)
	g.GET("/:id", "task:read", h.Task.GetByID)
	g.PUT("/:id", "task:update", h.Task.Update)
	g.POST("/:id/complete", "task:update", h.Task.Complete)
	g.DELETE("/:id", "task:delete", h.Task.Delete)
	return g
}

func portalRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("portal", "/threads")
	g.POST("", "portal:create", h.Portal.CreateThread)
	g.GET("", "portal:read", h.Portal.ListThreads)
	g.GET("/:id", "portal:read", h.Portal.GetThread)
	g.POST("/:id/messages", "portal:create", h.Portal.PostMessage)
	g.POST("/:id/read", "portal:read", h.Portal.MarkRead)
	g.POST("/:id/close", "portal:update", h.Portal.Close)
	return g
}

func designRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("design", "")
	b := g.Group("boards", "/boards")
	b.POST("", "design:create", h.Design.CreateBoard)
	b.GET("", "design:read", h.Design.ListBoards)
	b.GET("/:id", "design:read", h.Design.GetBoard)
	b.PUT("/:id", "design:update", h.Design.UpdateBoard)
	b.DELETE("/:id", "design:delete", h.Design.DeleteBoard)
	b.POST("/:id/assets/upload-url", "design:update", h.Design.RequestAssetUpload)
	b.POST("/:id/assets", "design:update", h.Design.ConfirmAsset)
	b.GET("/:id/assets/url", "design:read", h.Design.AssetDownloadURL)
	b.DELETE("/:id/assets", "design:update", h.Design.RemoveAsset)
	b.POST("/:id/share", "design:update", h.Design.ShareBoard)
	b.POST("/:id/approve", "design:update", h.Design.ApproveBoard)

	r := g.Group("reviews", "/reviews")
	r.POST("", "review:create", h.Design.CreateReview)
	r.GET("", "review:read", h.Design.ListReviews)
	r.GET("/:id", "review:read", h.Design.GetReview)
	r.PUT("/:id", "review:update", h.Design.UpdateReview)
	r.DELETE("/:id", "review:delete", h.Design.DeleteReview)
	r.POST("/:id/start", "review:update", h.Design.StartReview)
	r.POST("/:id/findings", "review:update", h.Design.AddFinding)
	r.POST("/:id/complete", "review:update", h.Design.CompleteReview)
	r.POST("/:id/cancel", "review:update", h.Design.CancelReview)
	return g
}

func automationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("automation", "/automation")
	r := g.Group("rules", "/rules")
	r.POST("", "automation:create", h.Automation.Create)
	r.GET("", "automation:read", h.Automation.List)
	r.GET("/:id", "automation:read", h.Automation.GetByID)
	r.PUT("/:id", "automation:update", h.Automation.Update)
	r.DELETE("/:id", "automation:delete", h.Automation.Delete)
	r.POST("/:id/activate", "automation:update", h.Automation.Activate)
	r.POST("/:id/deactivate", "automation:update", h.Automation.Deactivate)
	r.POST("/:id/test", "automation:execute", h.Automation.TestRule)

	g.POST("/trigger", "automation:execute", h.Automation.Trigger)
	g.GET("/executions", "automation:read", h.Automation.ListExecutions)
	return g
}

func predictionRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("predictions", "/predictions")
	g.GET("", "prediction:read", h.Prediction.List)
	g.GET("/latest", "prediction:read", h.Prediction.Latest)
	g.POST("/revenue", "prediction:create", h.Prediction.PredictRevenue)
	g.POST("/demand/:id", "prediction:create", h.Prediction.PredictDemand)
	g.POST("/churn/:id", "prediction:create", h.Prediction.PredictChurn)
	g.POST("/lead-scores", "prediction:create", h.Prediction.ScoreLeads)
	return g
}

func campaignRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("campaigns", "/campaigns")
	g.POST("", "campaign:create", h.Campaign.Create)
	g.GET("", "campaign:read", h.Campaign.List)
	g.GET("/:id", "campaign:read", h.Campaign.GetByID)
	g.PUT("/:id", "campaign:update", h.Campaign.Update)
	g.DELETE("/:id", "campaign:delete", h.Campaign.Delete)
	g.POST("/:id/send", "campaign:send", h.Campaign.Send)
	g.GET("/:id/deliveries", "campaign:read", h.Campaign.ListDeliveries)
	return g
}

func analyticsRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("analytics", "/analytics")
	g.GET("/ar-aging", "analytics:read", h.Analytics.ARAging)
	g.GET("/production-bottlenecks", "analytics:read", h.Analytics.ProductionBottlenecks)
	g.GET("/revenue", "analytics:read", h.Analytics.RevenueDashboard)
	g.POST("/refresh", "analytics:read", h.Analytics.Refresh)
	return g
}

func exportRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("exports", "/exports")
	g.GET("/:resource", "export:read", h.Export.Export)
	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "")
	g.GET("/health", Public, h.System.Health)

	s := g.Group("system", "/system")
	s.GET("/info", Public, h.System.GetSystemInfo)
	jobs := s.Group("jobs", "/jobs").Use(middleware.RequireRole(identity.RoleAdmin))
	jobs.GET("", Public, h.System.ListJobs)
	jobs.POST("/:name/run", Public, h.System.TriggerJob)
	return g
}

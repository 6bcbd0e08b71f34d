package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/http/handlers"
	"github.com/snackparty/catering-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Quotations     *handlers.QuotationsHandler
	Catalog        *handlers.CatalogHandler
	Inventory      *handlers.InventoryHandler
	Gallery        *handlers.GalleryHandler
	Upload         *handlers.UploadHandler
	Contact        *handlers.ContactHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthLimiter guards registration and login; ContactLimiter guards the
	// contact form. Nil disables limiting.
	AuthLimiter    *IPRateLimiter
	ContactLimiter *IPRateLimiter
}

// RegisterRoutes wires HTTP routes under /api and the catch-all 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")
	authed := cfg.AuthMiddleware.Handle
	staff := auth.RequireStaffOrAdmin()
	admin := auth.RequireAdmin()

	health := api.Group("/health")
	health.Get("/", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", authed, admin, cfg.Health.Metrics)

	users := api.Group("/users")
	users.Post("/register", cfg.AuthLimiter.Handler(), cfg.Users.Register)
	users.Post("/login", cfg.AuthLimiter.Handler(), cfg.Users.Login)
	users.Get("/profile", authed, cfg.Users.Profile)
	users.Put("/profile", authed, cfg.Users.UpdateProfile)
	users.Put("/password", authed, cfg.Users.ChangePassword)
	users.Get("/", authed, admin, cfg.Users.List)

	quotations := api.Group("/quotations", authed)
	quotations.Post("/", cfg.Quotations.Create)
	quotations.Get("/mine", cfg.Quotations.ListMine)
	quotations.Get("/admin/all", staff, cfg.Quotations.ListAll)
	quotations.Get("/admin/stats", staff, cfg.Quotations.Stats)
	quotations.Get("/:id", cfg.Quotations.Get)
	quotations.Get("/:id/pdf", cfg.Quotations.PDF)
	quotations.Put("/:id/status", staff, cfg.Quotations.UpdateStatus)
	quotations.Get("/:id/personalization", cfg.Quotations.GetPersonalization)
	quotations.Put("/:id/personalization", cfg.Quotations.SavePersonalization)
	quotations.Delete("/:id", cfg.Quotations.Delete)

	catalog := api.Group("/catalog")
	catalog.Get("/", cfg.Catalog.List)
	catalog.Get("/:id", cfg.Catalog.Get)
	catalog.Post("/", authed, staff, cfg.Catalog.Create)
	catalog.Put("/:id", authed, staff, cfg.Catalog.Update)
	catalog.Delete("/:id", authed, staff, cfg.Catalog.Delete)
	catalog.Post("/:id/products", authed, staff, cfg.Catalog.AddProduct)
	catalog.Delete("/:id/products/:productId", authed, staff, cfg.Catalog.RemoveProduct)
	catalog.Put("/:id/image", authed, staff, cfg.Catalog.SetImage)

	inventory := api.Group("/inventory")
	inventory.Get("/", cfg.Inventory.List)
	inventory.Get("/low-stock", cfg.Inventory.LowStock)
	inventory.Get("/stats", cfg.Inventory.Stats)
	inventory.Get("/:id", cfg.Inventory.Get)
	inventory.Post("/", authed, staff, cfg.Inventory.Create)
	inventory.Put("/:id", authed, staff, cfg.Inventory.Update)
	inventory.Put("/:id/stock", authed, staff, cfg.Inventory.UpdateStock)
	inventory.Delete("/:id", authed, admin, cfg.Inventory.Delete)

	gallery := api.Group("/gallery")
	gallery.Get("/", cfg.Gallery.List)
	gallery.Get("/featured", cfg.Gallery.Featured)
	gallery.Get("/types", cfg.Gallery.EventTypes)
	gallery.Get("/search", cfg.Gallery.Search)
	gallery.Get("/admin/stats", authed, staff, cfg.Gallery.Stats)
	gallery.Get("/:id", cfg.Gallery.Get)
	gallery.Post("/", authed, staff, cfg.Gallery.Create)
	gallery.Put("/:id", authed, staff, cfg.Gallery.Update)
	gallery.Delete("/:id", authed, admin, cfg.Gallery.Delete)

	upload := api.Group("/upload", authed, staff)
	upload.Post("/image", cfg.Upload.Upload)
	upload.Delete("/image", cfg.Upload.Delete)

	contact := api.Group("/contact")
	contact.Post("/", cfg.ContactLimiter.Handler(), cfg.Contact.Submit)
	contact.Get("/email-debug", authed, admin, cfg.Contact.EmailDebug)

	app.Use(NotFoundHandler)
}

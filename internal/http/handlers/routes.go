package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the API surface on the app.
func Register(app *fiber.App, d *Deps) {
	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", d.AuthH.Register)
	auth.Post("/login", d.AuthH.Login)
	auth.Post("/logout", d.AuthH.Logout)
	auth.Get("/me", RequireAuth(d.Auth), d.AuthH.Me)

	// Catalog & inventory
	api.Get("/products/seed", RequireAuth(d.Auth), RequireAdmin(), d.Product.Seed)
	api.Get("/products/:id", d.Product.Get)
	api.Get("/categories", d.Product.Categories)
	api.Get("/inventory/export", RequireAuth(d.Auth), RequireAdmin(), d.Product.Export)
	api.Get("/inventory", d.Product.List)
	api.Post("/inventory", RequireAuth(d.Auth), RequireAdmin(), d.Product.Create)
	api.Put("/inventory", RequireAuth(d.Auth), RequireAdmin(), d.Product.Update)
	api.Delete("/inventory", RequireAuth(d.Auth), RequireAdmin(), d.Product.Delete)

	// Orders
	api.Post("/orders", RequireAuth(d.Auth), d.Order.Place)
	api.Get("/orders", RequireAuth(d.Auth), d.Order.List)
	api.Get("/orders/:id", RequireAuth(d.Auth), d.Order.Get)
	api.Put("/orders/:id/status", RequireAuth(d.Auth), RequireAdmin(), d.Order.UpdateStatus)
}

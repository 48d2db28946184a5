// Package routes binds the HTTP surface to the controllers.
package routes

import (
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/controllers"
	"github.com/nikhilrana/saman/app/repositories"
	"github.com/nikhilrana/saman/app/services"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/middleware"
	"github.com/nikhilrana/saman/pkg/router"
	"github.com/nikhilrana/saman/pkg/storage"
)

// RegisterAPI wires every endpoint. The store handles are injected here and
// flow down through repositories into the controllers; nothing reads global
// connection state.
func RegisterAPI(r *router.Router, db *gorm.DB, store *cache.Store, disk storage.Disk) {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db, store)

	home := controllers.NewHomeController()
	authc := controllers.NewAuthController(services.NewAuthService(userRepo))
	products := controllers.NewProductController(productRepo, disk)

	// Public surface.
	r.Get("/", "home.index", home.Index)
	r.Post("/register", "auth.register", authc.Register)
	r.Post("/login", "auth.login", authc.Login)
	r.Post("/login/refresh", "auth.refresh", authc.Refresh)

	// Product CRUD, bearer token required.
	protected := r.Group("/products", middleware.Auth)
	protected.Get("/", "products.list", products.List)
	protected.Post("/", "products.create", products.Create)
	protected.Get("/{id}", "products.detail", products.Detail)
	protected.Put("/{id}", "products.update", products.Update)
	protected.Delete("/{id}", "products.delete", products.Delete)
	protected.Post("/{id}/image", "products.image", products.UploadImage)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Flota-api/internal/application/auth"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	AuthUC        *auth.AuthUseCase
	GroupUC       *usecase.GroupUseCase
	CategoryUC    *usecase.CategoryUseCase
	ModelUC       *usecase.ModelUseCase
	AssetUC       *usecase.AssetUseCase
	PropagationUC *usecase.PropagationUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Login público
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// El resto de /api requiere Bearer Token; las mutaciones además rol admin o jefe_taller.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(jwt.RoleAdmin, jwt.RoleJefeTaller)
	adminOnly := RequireRole(jwt.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	usuarios := protected.Group("/usuarios", adminOnly)
	usuarios.Get("/", authHandler.List)
	usuarios.Post("/", authHandler.Register)
	usuarios.Put("/:id", authHandler.Update)

	grupos := protected.Group("/grupos")
	groupHandler := NewGroupHandler(deps.GroupUC)
	grupos.Get("/", groupHandler.List)
	grupos.Post("/", write, groupHandler.Create)
	grupos.Get("/:id", groupHandler.GetByID)
	grupos.Put("/:id", write, groupHandler.Update)
	grupos.Delete("/:id", write, groupHandler.Delete)
	grupos.Get("/:id/subgrupos", groupHandler.Subgroups)

	categorias := protected.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categorias.Get("/", categoryHandler.List)
	categorias.Post("/", write, categoryHandler.Create)
	categorias.Get("/:id", categoryHandler.GetByID)
	categorias.Put("/:id", write, categoryHandler.Update)
	categorias.Delete("/:id", write, categoryHandler.Delete)
	categorias.Put("/:id/grupos", write, categoryHandler.SetGroups)

	modelos := protected.Group("/modelos")
	modelHandler := NewModelHandler(deps.ModelUC)
	modelos.Get("/", modelHandler.List)
	modelos.Post("/", write, modelHandler.Create)
	modelos.Get("/:id", modelHandler.GetByID)
	modelos.Put("/:id", write, modelHandler.Update)
	modelos.Delete("/:id", write, modelHandler.Delete)

	activos := protected.Group("/activos")
	assetHandler := NewAssetHandler(deps.AssetUC)
	activos.Get("/", assetHandler.List)
	activos.Post("/", write, assetHandler.Create)
	activos.Get("/:id", assetHandler.GetByID)
	activos.Put("/:id", write, assetHandler.Update)
	activos.Delete("/:id", write, assetHandler.Delete)
	activos.Get("/:id/componentes", assetHandler.Components)

	propagationHandler := NewPropagationHandler(deps.PropagationUC)
	protected.Post("/propagar/:nivel/:id", write, propagationHandler.Propagate)
}

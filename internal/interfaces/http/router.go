package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry  *schema.Registry
	ImportUC  *importer.ImportUseCase
	Hierarchy *hierarchy.Service
	History   *graph.HistoryReader
	// Metrics handler de Prometheus; nil = sin /metrics.
	Metrics   nethttp.Handler
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleEditor)

	// Esquema, validación e importación
	categories := protected.Group("/categories")
	schemaHandler := NewSchemaHandler(deps.Registry)
	importHandler := NewImportHandler(deps.ImportUC)
	categories.Get("/:name/fields", schemaHandler.Fields)
	categories.Post("/:name/validate", importHandler.Validate)
	categories.Post("/:name/import", writers, importHandler.Import)

	// Historial de atributos
	entities := protected.Group("/entities")
	historyHandler := NewHistoryHandler(deps.History)
	entities.Get("/:id/history/:fieldId", historyHandler.Get)

	// Jerarquías materializadas
	hier := protected.Group("/hierarchy")
	hierarchyHandler := NewHierarchyHandler(deps.Hierarchy)
	hier.Get("/categories/:name", hierarchyHandler.ByCategory)
	hier.Get("/themes/:publicId", hierarchyHandler.ByTheme)
	hier.Post("/refresh", RequireRole(jwt.RoleAdmin), hierarchyHandler.Refresh)
}

package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inventario/internal/config"
	"inventario/internal/handler"
	"inventario/internal/middleware"
	"inventario/internal/repository"
	"inventario/internal/service"
	"inventario/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMin, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	productoSvc := service.NewProductoService(productoRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.GET("/products", productosH.Listar)
		api.POST("/products", productosH.Crear)
		api.GET("/products/search", inventarioH.Buscar)
		api.GET("/products/dashboard/inventory", inventarioH.Dashboard)

		stock := api.Group("/products/stock")
		{
			stock.GET("/low", inventarioH.StockBajo)
			stock.GET("/out", inventarioH.SinStock)
			stock.GET("/near-low", inventarioH.ProximosBajoStock)
			stock.GET("/critical", inventarioH.Criticos)
			stock.GET("/top", inventarioH.TopPorStock)
		}

		api.GET("/products/:id", productosH.ObtenerPorID)
		api.PUT("/products/:id", productosH.Actualizar)
		api.DELETE("/products/:id", productosH.Eliminar)
		api.POST("/products/:id/adjust-stock", inventarioH.AjustarStock)
		api.PATCH("/products/:id/stock-minimo", inventarioH.ActualizarStockMinimo)
		api.GET("/products/:id/movimientos", inventarioH.Movimientos)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

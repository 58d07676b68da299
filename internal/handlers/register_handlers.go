package handlers

import (
	"net/http"

	"github.com/SscSPs/boutique_treasury/cmd/docs"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/SscSPs/boutique_treasury/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes. Extra middleware, such as
// the rate limiter, runs after authentication so limits apply per actor.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, apiMiddleware)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes mounts every treasury resource under its boutique scope.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware []gin.HandlerFunc,
) {
	handlersChain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}, apiMiddleware...)
	v1 := r.Group("/api/v1", handlersChain...)

	boutique := v1.Group("/applications/:application_id/boutiques/:boutique_id")
	registerAccountRoutes(boutique, services.Account, services.CashFlow)
	registerCategoryRoutes(boutique, services.Category)
	registerCashFlowRoutes(boutique, services.CashFlow, services.Category)
	registerBudgetRoutes(boutique, services.Budget)
	registerRecurringRoutes(boutique, services.Recurring)
	registerReportingRoutes(boutique, services.Reporting, services.Category)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

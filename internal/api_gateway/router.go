package api_gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moneyflow-ledger/internal/api_gateway/handler"
	"github.com/moneyflow-ledger/internal/api_gateway/middleware"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck pings one backing store
type HealthCheck func(ctx context.Context) error

type handlers struct {
	account     *handler.AccountHandler
	category    *handler.CategoryHandler
	transaction *handler.TransactionHandler
	dashboard   *handler.DashboardHandler
	activity    *handler.ActivityHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, checks map[string]HealthCheck) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// Every API route is scoped to the caller resolved by UserIdentity
	v1 := r.Group("/api/v1", middleware.UserIdentity())
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", h.account.Create)
			accounts.GET("", h.account.List)
			accounts.GET("/summary/balance", h.account.TotalBalance)
			accounts.GET("/:id", h.account.GetByID)
			accounts.PATCH("/:id", h.account.Update)
			accounts.DELETE("/:id", h.account.Delete)
			accounts.POST("/:id/deactivate", h.account.Deactivate)
			accounts.GET("/:id/balance", h.account.Balance)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", h.category.Create)
			categories.GET("", h.category.List)
			categories.GET("/:id", h.category.GetByID)
			categories.PATCH("/:id", h.category.Update)
			categories.POST("/:id/deactivate", h.category.Deactivate)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("", h.transaction.Create)
			transactions.GET("", h.transaction.List)
			transactions.GET("/:id", h.transaction.GetByID)
			transactions.PATCH("/:id", h.transaction.Update)
			transactions.DELETE("/:id", h.transaction.Delete)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", h.dashboard.Summary)
			dashboard.GET("/trends", h.dashboard.Trends)
			dashboard.GET("/categories", h.dashboard.ExpenseCategories)
			dashboard.GET("/income_categories", h.dashboard.IncomeCategories)
			dashboard.GET("/overview", h.dashboard.Overview)
		}

		v1.GET("/activity", h.activity.List)
	}

	r.GET("/health", healthHandler(checks))
}

// healthHandler reports 503 when any backing store fails its ping
func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":     overall,
			"components": components,
			"timestamp":  time.Now().UTC(),
		})
	}
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.CostingHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/allocations/calculate", handler.Calculate)
		api.GET("/allocations", handler.Monthly)
		api.POST("/allocations/publish", handler.Publish)
		api.GET("/allocations/published", handler.Published)
		api.GET("/requirements", handler.Requirements)

		api.GET("/scenarios", handler.ListScenarios)
		api.POST("/scenarios", handler.CreateScenario)
		api.DELETE("/scenarios/:id", handler.DeleteScenario)
		api.POST("/scenarios/compare", handler.CompareScenarios)

		api.POST("/projections", handler.Project)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

// zapLoggerMiddleware logs one line per request; server errors are logged at
// error level with any errors attached to the gin context.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case c.Request.URL.Path == "/healthz":
			logger.Debug("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

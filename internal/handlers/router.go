package handlers

import (
	"net/http"
	"time"

	"DF-CONTRATOS/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Dependencies struct {
	Contracts    *services.ContractService
	Documents    *services.DocumentService
	ActivityLogs *services.ActivityLogService
	AllowOrigins []string
	Logger       *zap.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestID(), Recovery(logger))
	if len(deps.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  deps.AllowOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
			ExposeHeaders: []string{"Content-Disposition", "Content-Length", RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if deps.ActivityLogs != nil {
		r.Use(deps.ActivityLogs.LoggingMiddleware())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	contractHandler := NewContractHandler(deps.Contracts, logger)
	documentHandler := NewDocumentHandler(deps.Contracts, deps.Documents, logger)

	v1 := r.Group("/api/v1")
	{
		// Field masking and identifier checks
		v1.POST("/masks/:kind", MaskValue)
		v1.POST("/identifiers/:kind/validate", ValidateIdentifier)

		// Contract collection
		v1.GET("/contracts/new", contractHandler.NewContract)
		v1.POST("/contracts/validate", contractHandler.ValidateContract)
		v1.GET("/contracts", contractHandler.List)
		v1.POST("/contracts", contractHandler.Create)
		v1.GET("/contracts/:id", contractHandler.Get)
		v1.PUT("/contracts/:id", contractHandler.Update)
		v1.DELETE("/contracts/:id", contractHandler.Delete)

		// Documents
		v1.POST("/contracts/:id/document", documentHandler.Generate)
		v1.POST("/documents/preview", documentHandler.Preview)
		v1.GET("/documents/:id/download", documentHandler.Download)

		if deps.ActivityLogs != nil {
			v1.GET("/logs", NewLogsHandler(deps.ActivityLogs).GetLogs)
		}
	}

	return r
}

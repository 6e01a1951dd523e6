package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/valuations", handler.CreateValuation)
		api.POST("/valuations/detailed", handler.CreateDetailedValuation)
		api.GET("/valuations/:id/audit", handler.GetAudit)
		api.POST("/precision", handler.ScorePrecision)
		api.GET("/history", handler.GetHistory)
		api.POST("/history/clear", handler.ClearHistory)
		api.GET("/stats", handler.GetStats)
		api.POST("/stats/reset", handler.ResetStats)
	}
}

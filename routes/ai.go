package routes

import (
	"clearday/controllers"

	"github.com/gin-gonic/gin"
)

func StoreProgressAnalysisRouteHandler(ctx *gin.Context) {
	controllers.StoreProgressAnalysis(ctx)
}

func StoreProductEvaluationRouteHandler(ctx *gin.Context) {
	controllers.StoreProductEvaluation(ctx)
}

func GetUserDataForAIRouteHandler(ctx *gin.Context) {
	controllers.GetUserDataForAI(ctx)
}

func GetProgressMetricsRouteHandler(ctx *gin.Context) {
	controllers.GetProgressMetrics(ctx)
}

func GetProductEvaluationsRouteHandler(ctx *gin.Context) {
	controllers.GetProductEvaluations(ctx)
}

func DeleteProgressMetricRouteHandler(ctx *gin.Context) {
	controllers.DeleteProgressMetric(ctx)
}

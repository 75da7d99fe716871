package routes

import (
	"clearday/controllers"

	"github.com/gin-gonic/gin"
)

func UpdateMilestonesRouteHandler(ctx *gin.Context) {
	controllers.UpdateMilestones(ctx)
}

func GetGamificationStatusRouteHandler(ctx *gin.Context) {
	controllers.GetGamificationStatus(ctx)
}

func CompleteGestureRouteHandler(ctx *gin.Context) {
	controllers.CompleteGesture(ctx)
}

package routes

import (
	"clearday/controllers"

	"github.com/gin-gonic/gin"
)

func UploadPhotoRouteHandler(ctx *gin.Context) {
	controllers.UploadPhoto(ctx)
}

func CompleteRoutineRouteHandler(ctx *gin.Context) {
	controllers.CompleteRoutine(ctx)
}

func CompleteRoutineStepsRouteHandler(ctx *gin.Context) {
	controllers.CompleteRoutineSteps(ctx)
}

func GetDailyStatusRouteHandler(ctx *gin.Context) {
	controllers.GetDailyStatus(ctx)
}

func GetDailyHistoryRouteHandler(ctx *gin.Context) {
	controllers.GetDailyHistory(ctx)
}

func UpdateDailyLogRouteHandler(ctx *gin.Context) {
	controllers.UpdateDailyLog(ctx)
}

package routes

import (
	"clearday/controllers"

	"github.com/gin-gonic/gin"
)

func CreateOrUpdateProfileRouteHandler(ctx *gin.Context) {
	controllers.CreateOrUpdateProfile(ctx)
}

func GetProfileRouteHandler(ctx *gin.Context) {
	controllers.GetProfile(ctx)
}

func UpdateCustomRoutineStepsRouteHandler(ctx *gin.Context) {
	controllers.UpdateCustomRoutineSteps(ctx)
}

func DeleteProfileRouteHandler(ctx *gin.Context) {
	controllers.DeleteProfile(ctx)
}

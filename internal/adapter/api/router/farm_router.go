package router

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/adapter/api/handler"
	"farmily/internal/adapter/api/middleware"
)

func SetupTaskRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	taskHandler := handler.GetTaskHandler()

	tasks := protected(e, "/tasks", authMiddleware)
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
}

func SetupYieldRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	yieldHandler := handler.GetYieldHandler()

	yields := protected(e, "/yields", authMiddleware)
	yields.GET("", yieldHandler.ListYields)
	yields.POST("", yieldHandler.CreateYield)
	yields.GET("/report", yieldHandler.Report)
	yields.GET("/export", yieldHandler.Export)
	yields.PUT("/:id", yieldHandler.UpdateYield)
	yields.DELETE("/:id", yieldHandler.DeleteYield)
}

func SetupFarmRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	farmHandler := handler.GetFarmHandler()

	farms := protected(e, "/farms", authMiddleware)
	farms.GET("", farmHandler.ListFarms)
	farms.POST("", farmHandler.CreateFarm)
	farms.GET("/:id/fields", farmHandler.ListFields)
	farms.POST("/:id/fields", farmHandler.AddField)

	fields := protected(e, "/fields", authMiddleware)
	fields.GET("/:fieldId", farmHandler.GetField)
	fields.POST("/:fieldId/notes", farmHandler.AddNote)
	fields.PUT("/:fieldId/stages/:stage", farmHandler.SetGrowthStage)
	fields.POST("/:fieldId/metrics/:metric", farmHandler.RecordMetric)
}

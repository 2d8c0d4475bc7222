package internal

import (
	"net/http"

	"gsd/internal/controllers"
	"gsd/internal/providers"
	"gsd/internal/structures"
)

func InitRoutes(saveController *controllers.SaveController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/save", http.HandlerFunc(saveController.SaveGameData))
	routers.Get("/load", http.HandlerFunc(saveController.LoadGameData))
	routers.Post("/settings/save", http.HandlerFunc(saveController.SaveSettings))
	routers.Get("/settings", http.HandlerFunc(saveController.LoadSettings))
	routers.Post("/statistics/save", http.HandlerFunc(saveController.SaveStatistics))
	routers.Get("/statistics", http.HandlerFunc(saveController.LoadStatistics))
	routers.Post("/quicksave", http.HandlerFunc(saveController.QuickSave))
	routers.Post("/flush", http.HandlerFunc(saveController.FlushCache))
	routers.Post("/backup", http.HandlerFunc(saveController.CreateBackup))
	routers.Get("/backups", http.HandlerFunc(saveController.ListBackups))
	routers.Post("/restore", http.HandlerFunc(saveController.RestoreBackup))
	routers.Get("/export", http.HandlerFunc(saveController.Export))
	routers.Post("/import", http.HandlerFunc(saveController.Import))
	routers.Get("/cloud", http.HandlerFunc(saveController.PrepareCloudSave))
	routers.Post("/cloud/apply", http.HandlerFunc(saveController.ApplyCloudSave))
	routers.Delete("/data", http.HandlerFunc(saveController.DeleteAll))
	routers.Get("/info", http.HandlerFunc(saveController.Info))
	return routers
}

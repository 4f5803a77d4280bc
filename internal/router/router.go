package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/utm-observer/backend/api/handler"
)

type Handlers struct {
	FlightStrip  *apiHandler.FlightStripHandler
	DroneMapping *apiHandler.DroneMappingHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/health/events", handlers.Health.Events)

	// Flight strips
	r.POST("/api/flight-strips/", handlers.FlightStrip.Create)
	r.GET("/api/flight-strips/", handlers.FlightStrip.List)
	r.GET("/api/flight-strips/deleted", handlers.FlightStrip.ListDeleted)
	r.GET("/api/flight-strips/statistics/by-area", handlers.FlightStrip.CountByArea)
	r.GET("/api/flight-strips/{flight_strip_name}", handlers.FlightStrip.Get)
	r.PUT("/api/flight-strips/{flight_strip_name}", handlers.FlightStrip.Update)
	r.DELETE("/api/flight-strips/{flight_strip_name}", handlers.FlightStrip.Delete)
	r.POST("/api/flight-strips/{flight_strip_name}/restore", handlers.FlightStrip.Restore)
	r.DELETE("/api/flight-strips/{flight_strip_name}/purge", handlers.FlightStrip.Purge)

	// Drone mappings
	r.POST("/api/drone-mappings/", handlers.DroneMapping.Create)
	r.GET("/api/drone-mappings/", handlers.DroneMapping.List)
	r.POST("/api/drone-mappings/bulk", handlers.DroneMapping.BulkCreate)
	r.POST("/api/drone-mappings/reconcile", handlers.DroneMapping.Reconcile)
	r.GET("/api/drone-mappings/deleted", handlers.DroneMapping.ListDeleted)
	r.GET("/api/drone-mappings/statistics/deletion", handlers.DroneMapping.DeletionStatistics)
	r.GET("/api/drone-mappings/search/by-identifier/{identifier}", handlers.DroneMapping.FindByIdentifier)
	r.GET("/api/drone-mappings/{drone_name}", handlers.DroneMapping.Get)
	r.PUT("/api/drone-mappings/{drone_name}", handlers.DroneMapping.Update)
	r.DELETE("/api/drone-mappings/{drone_name}", handlers.DroneMapping.Delete)
	r.POST("/api/drone-mappings/{drone_name}/restore", handlers.DroneMapping.Restore)

	return r
}

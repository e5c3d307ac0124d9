package internal

import (
	"net/http"
	"sbd/internal/controllers"
	"sbd/internal/providers"
	"sbd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/streams", http.HandlerFunc(apiController.GetStreams))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/whoami", http.HandlerFunc(apiController.WhoAmI))
	routers.Post("/refresh", http.HandlerFunc(apiController.Refresh))
	routers.Post("/credential", http.HandlerFunc(apiController.PutCredential))
	return routers
}

package routes

import (
	"github.com/pcrpg2df4s-blip/dietweb/controllers"
	"github.com/pcrpg2df4s-blip/dietweb/middlewares"
	"github.com/pcrpg2df4s-blip/dietweb/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(botToken string, foodLogs *services.FoodLogService, users *services.UserService) *gin.Engine {
	r := gin.Default()

	// The mini app is served from a different origin, so the browser
	// preflights both sync routes.
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Init-Data"},
	}))

	syncCtl := controllers.NewSyncController(foodLogs)

	sync := r.Group("/sync")
	sync.Use(middlewares.InitDataMiddleware(botToken, users))
	{
		sync.POST("/save", syncCtl.Save)
		sync.GET("/load", syncCtl.Load)
	}

	return r
}

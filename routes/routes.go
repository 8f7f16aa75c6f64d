package routes

import (
	"net/http"

	"cardscore/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	statsHandler *handlers.StatsHandler,
) {
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/game-types", gameHandler.ListGameTypes)

		players := api.Group("/players")
		{
			players.GET("", playerHandler.ListPlayers)
			players.POST("", playerHandler.CreatePlayer)
			players.GET("/:id", playerHandler.GetPlayer)
			players.DELETE("/:id", playerHandler.DeletePlayer)
		}

		games := api.Group("/games")
		{
			games.GET("", gameHandler.ListGames)
			games.POST("", gameHandler.CreateGame)
			games.GET("/:id", gameHandler.GetGame)
			games.DELETE("/:id", gameHandler.DeleteGame)
			games.POST("/:id/score", gameHandler.SubmitScore)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/leaderboard", statsHandler.Leaderboard)
		}
	}

	// Health check endpoint
	router.GET("/health", health)
}

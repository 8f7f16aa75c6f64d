package main

import (
	"log"

	"cardscore/cache"
	"cardscore/config"
	"cardscore/handlers"
	"cardscore/middleware"
	"cardscore/routes"
	"cardscore/services"
	"cardscore/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	gin.SetMode(cfg.GinMode)

	tieBreak, err := cfg.TieBreakPolicy()
	if err != nil {
		log.Fatal("Invalid tie break policy:", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	c := openCache(cfg)

	// Initialize services
	playerService := services.NewPlayerService(st)
	gameService := services.NewGameService(st, c, tieBreak, cfg.CacheTTL)
	statsService := services.NewStatsService(st, c, tieBreak, cfg.CacheTTL)

	// Initialize handlers
	playerHandler := handlers.NewPlayerHandler(playerService)
	gameHandler := handlers.NewGameHandler(gameService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins...))

	routes.SetupRoutes(router, playerHandler, gameHandler, statsHandler)

	// Start server
	log.Printf("Server starting on %s (store=%s, cache=%s, tie_break=%s)", cfg.Addr(), cfg.StoreDriver, cfg.CacheDriver, tieBreak)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Printf("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	// Auto-migrate database models
	gs := store.NewGormStore(db)
	if err := gs.Migrate(); err != nil {
		return nil, err
	}
	return gs, nil
}

func openCache(cfg *config.Config) cache.Cache {
	switch cfg.CacheDriver {
	case "none":
		return cache.Nop{}
	case "memory":
		return cache.NewMemory()
	}

	// Initialize Redis
	client := config.InitRedis(cfg)
	return cache.NewRedisCache(client, cfg.CachePrefix)
}

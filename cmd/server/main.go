package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/lightbnb/lightbnb/internal/config"
	"github.com/lightbnb/lightbnb/internal/database"
	"github.com/lightbnb/lightbnb/internal/handler"
	"github.com/lightbnb/lightbnb/internal/queue"
	"github.com/lightbnb/lightbnb/internal/router"
	"github.com/lightbnb/lightbnb/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	users := store.NewUserStore(db)
	properties := store.NewPropertyStore(db)
	reservations := store.NewReservationStore(db)

	// Background consumer records property.listed events.
	go queue.StartListingConsumer()

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	router.Register(e, router.Deps{
		Auth:         handler.NewAuthHandler(cfg, users),
		Properties:   handler.NewPropertyHandler(properties),
		Reservations: handler.NewReservationHandler(reservations),
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

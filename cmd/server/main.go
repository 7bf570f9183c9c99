package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/config"
    "github.com/localmart/local-services/internal/database"
    "github.com/localmart/local-services/internal/handler"
    "github.com/localmart/local-services/internal/queue"
    "github.com/localmart/local-services/internal/repository"
    "github.com/localmart/local-services/internal/router"
)

func main() {
    // .env is optional; real deployments set variables in the environment.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs the public-route response cache and rate limiter.
    // A nil client disables both.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; cache and rate limiting disabled")
    }

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    locations := repository.NewLocationRepo(db)
    appointments := repository.NewAppointmentRepo(db)
    events := repository.NewEventRepo(db)
    reservations := repository.NewReservationRepo(db)

    publishEvents := cfg.AmqpURL != ""
    if publishEvents {
        go func() {
            if err := queue.StartMarketplaceConsumer(); err != nil {
                log.Printf("marketplace consumer stopped: %v", err)
            }
        }()
    } else {
        log.Printf("AMQP_URL not set; event publishing disabled")
    }

    healthH := handler.NewHealthHandler(db)
    authH := handler.NewAuthHandler(cfg, users, tokens, locations)
    publicH := handler.NewPublicHandler(locations, events)
    bookingH := handler.NewBookingHandler(locations, appointments)
    consultantH := handler.NewConsultantHandler(appointments, locations, publishEvents)
    ownerLocH := handler.NewOwnerLocationHandler(locations, appointments, users)
    ownerEvtH := handler.NewOwnerEventHandler(events, locations, users)
    cartH := handler.NewCartHandler(reservations, events, publishEvents)
    pickupH := handler.NewPickupHandler(reservations)

    e := echo.New()
    router.RegisterRoutes(e, healthH)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, rdb)
    router.RegisterCustomer(e, bookingH, cartH, cfg.JWTSecret)
    router.RegisterConsultant(e, consultantH, pickupH, cfg.JWTSecret)
    router.RegisterShared(e, bookingH, cfg.JWTSecret)
    router.RegisterOwner(e, ownerLocH, ownerEvtH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}

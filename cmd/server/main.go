package main

import (
	"context"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/booking"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/config"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/geo"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/handler"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/mail"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/middleware"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/oyo"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/queue"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/router"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/snapshot"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/telegram"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	props, err := config.LoadProperties(cfg.PropertiesFile)
	if err != nil {
		log.Fatalf("load properties: %v", err)
	}
	log.Printf("loaded %d properties from %s", len(props), cfg.PropertiesFile)

	ttl := cache.New()
	client := oyo.New(oyo.Options{
		PropParallel:   cfg.PropParallelLimit,
		DetailParallel: cfg.DetailParallelLimit,
		RPS:            cfg.UpstreamRPS,
		Cache:          ttl,
	})

	store := snapshot.NewStore()
	refresher := snapshot.NewRefresher(store, client, props, cfg.RefreshInterval)

	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	mailer := mail.New(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort), cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	bookings := booking.NewService(props, booking.NewStore(), bot, mailer, queue.NewPublisher())

	ctx := context.Background()
	go refresher.Run(ctx)
	go bot.PollUpdates(ctx, bookings)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	api := &handler.API{
		Store:     store,
		Refresher: refresher,
		Geo:       geo.New(ttl),
		Booking:   bookings,
		Client:    client,
		Props:     props,
	}
	router.Register(e, api, router.Options{
		ResponseCache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"centrotreino_backend/internals/configs"
	contentsvc "centrotreino_backend/internals/features/content/service"
	daysvc "centrotreino_backend/internals/features/schedule/day/service"
	"centrotreino_backend/internals/features/schedule/day/dto"
	"centrotreino_backend/internals/features/schedule/regybox"
	"centrotreino_backend/internals/features/schedule/week"
	helper "centrotreino_backend/internals/helpers"
	"centrotreino_backend/internals/helpers/querycache"
	middlewares "centrotreino_backend/internals/middlewares"
	routes "centrotreino_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	fcfg := fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
	}
	if cfg.TrustProxy {
		fcfg.ProxyHeader = fiber.HeaderXForwardedFor
		fcfg.EnableTrustedProxyCheck = true
		fcfg.TrustedProxies = cfg.TrustedProxies
	}
	app := fiber.New(fcfg)

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg)

	// upstream booking system
	client := regybox.NewClient(regybox.Options{
		BaseURL:     cfg.RegyBoxBaseURL,
		Lang:        cfg.RegyBoxLang,
		Credentials: cfg.RegyBox,
		HTTPClient:  &http.Client{Timeout: cfg.UpstreamTimeout},
	})
	day := daysvc.NewDayService(client)

	// week view, one cache entry per date
	loc, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		log.Printf("[WARN] unknown SCHEDULE_TIMEZONE %q, using UTC: %v", cfg.ScheduleTimezone, err)
		loc = time.UTC
	}
	cache := querycache.New[dto.DaySchedule](querycache.DefaultOptions())
	// days load in process unless a public day endpoint (behind a CDN) is configured
	var fetcher week.DayFetcher = week.NewServiceFetcher(day)
	if cfg.ScheduleAPIBaseURL != "" {
		fetcher = week.NewHTTPFetcher(cfg.ScheduleAPIBaseURL, cfg.UpstreamTimeout*2)
	}
	agg := week.NewAggregator(week.Options{
		Fetcher:  fetcher,
		Cache:    cache,
		Labels:   week.LabelsFor(cfg.ScheduleLocale),
		Location: loc,
		Program:  cfg.ScheduleProgram,
	})

	routes.SetupRoutes(app, routes.Deps{
		Day:         day,
		Week:        agg,
		Content:     contentsvc.NewStore(cfg.ContentDir),
		Validate:    validator.New(),
		RateLimit:   cfg.RateLimitPerMinute,
		WeekMaxWait: 20 * time.Second,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then stop background fetches
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[WARN] shutdown: %v", err)
	}
	cache.Close()
	log.Println("[INFO] server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-gateway/weatherproxy"
	"weather-gateway/weatherproxy/application"
	"weather-gateway/weatherproxy/domain"
	"weather-gateway/weatherproxy/infra"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	lg := log.New()

	cfg, err := readConfig()
	if err != nil {
		lg.Fatalf("config error: %v", err)
	}

	tracker := infra.NewWindowStore(cfg.rateMax, cfg.rateWindow)
	cache := infra.NewCache(cfg.cacheTTL, cfg.cacheMaxEntries)
	fetcher := infra.NewClient(
		infra.WithBaseURL(cfg.upstreamURL),
		infra.WithForecastDays(cfg.forecastDays),
		infra.WithTimeout(cfg.upstreamTimeout),
		infra.WithOutboundLimit(cfg.outboundRPS, cfg.outboundBurst),
	)

	var stats domain.StatsStore
	switch cfg.statsBackend {
	case "memory":
		stats = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.statsTrackKeys))
	case "prometheus":
		stats = infra.NewPromStatsStore()
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			lg.Fatalf("redis stats ping error: %v", err)
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackKeys(cfg.statsTrackKeys),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	tracker.StartJanitor(ctx)

	svc := application.Service{
		Tracker: tracker,
		Cache:   cache,
		Fetcher: fetcher,
		// chave checada a cada requisição, não na subida do processo
		APIKey: func() string { return os.Getenv("WEATHER_API_KEY") },
		Log:    lg,
	}

	rtr := chi.NewRouter()
	rtr.Use(weatherproxy.ConcurrencyMiddleware(weatherproxy.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	}))

	rtr.Handle("/api/weather", weatherproxy.Handler(weatherproxy.Options{
		Service:            svc,
		Stats:              stats,
		KeyHeader:          cfg.keyHeader,
		TrustXForwardedFor: cfg.trustXFF,
		AddDebugHeaders:    cfg.addDebugHeaders,
		Log:                lg,
	}))
	rtr.Handle("/api/scene", weatherproxy.SceneHandler())
	if cfg.statsBackend == "prometheus" {
		rtr.Handle("/metrics", promhttp.Handler())
	}

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           rtr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Printf("weather gateway listening on %s -> %s", cfg.listenAddr, cfg.upstreamURL)
	lg.Printf("rate: max=%d window=%s keyHeader=%q trustXFF=%v", cfg.rateMax, cfg.rateWindow, cfg.keyHeader, cfg.trustXFF)
	lg.Printf("cache: ttl=%s maxEntries=%d", cfg.cacheTTL, cfg.cacheMaxEntries)
	lg.Printf("stats: backend=%q redisAddr=%q bucket=%q ttl=%s trackKeys=%v", cfg.statsBackend, cfg.statsRedisAddr, cfg.statsBucket, cfg.statsTTL, cfg.statsTrackKeys)
	lg.Printf("concurrency: max=%d acquireTimeout=%s", cfg.concurrencyMax, cfg.concurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatalf("server error: %v", err)
	}
}

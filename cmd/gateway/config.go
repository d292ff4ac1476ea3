package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type config struct {
	listenAddr string

	upstreamURL     string
	upstreamTimeout time.Duration
	forecastDays    int
	outboundRPS     float64
	outboundBurst   int

	rateMax    int
	rateWindow time.Duration

	cacheTTL        time.Duration
	cacheMaxEntries int

	keyHeader       string
	trustXFF        bool
	addDebugHeaders bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	statsBackend       string // "", "memory", "redis" ou "prometheus"
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackKeys     bool
}

// fileConfig é a forma opcional em yaml (GATEWAY_CONFIG aponta o arquivo).
// O conteúdo passa por os.ExpandEnv antes do unmarshal; variáveis de ambiente
// sempre ganham do arquivo.
type fileConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	Upstream struct {
		URL           string  `yaml:"url"`
		Timeout       string  `yaml:"timeout"`
		ForecastDays  int     `yaml:"forecast_days"`
		OutboundRPS   float64 `yaml:"outbound_rps"`
		OutboundBurst int     `yaml:"outbound_burst"`
	} `yaml:"upstream"`

	Rate struct {
		Max    int    `yaml:"max"`
		Window string `yaml:"window"`
	} `yaml:"rate"`

	Cache struct {
		TTL        string `yaml:"ttl"`
		MaxEntries int    `yaml:"max_entries"`
	} `yaml:"cache"`

	KeyHeader       string `yaml:"key_header"`
	TrustXFF        bool   `yaml:"trust_xff"`
	AddDebugHeaders bool   `yaml:"add_debug_headers"`

	Concurrency struct {
		Max     int    `yaml:"max"`
		Timeout string `yaml:"timeout"`
	} `yaml:"concurrency"`

	Stats struct {
		Backend   string `yaml:"backend"`
		RedisAddr string `yaml:"redis_addr"`
		RedisDB   int    `yaml:"redis_db"`
		Prefix    string `yaml:"prefix"`
		TTL       string `yaml:"ttl"`
		Bucket    string `yaml:"bucket"`
		TrackKeys bool   `yaml:"track_keys"`
	} `yaml:"stats"`
}

func readConfig() (config, error) {
	// defaults: 20 req/h por cliente, cache de 10min com 100 entradas
	cfg := config{
		listenAddr:      ":8080",
		upstreamURL:     "https://api.weatherapi.com/v1",
		upstreamTimeout: 10 * time.Second,
		forecastDays:    3,
		rateMax:         20,
		rateWindow:      1 * time.Hour,
		cacheTTL:        10 * time.Minute,
		cacheMaxEntries: 100,
		concurrencyMax:  100,
		statsPrefix:     "weather:stats",
		statsTTL:        24 * time.Hour,
		statsBucket:     "minute",
	}

	if fn := os.Getenv("GATEWAY_CONFIG"); fn != "" {
		if err := applyFile(&cfg, fn); err != nil {
			return config{}, err
		}
	}

	cfg.listenAddr = getenvDefault("LISTEN_ADDR", cfg.listenAddr)
	cfg.upstreamURL = getenvDefault("UPSTREAM_URL", cfg.upstreamURL)
	cfg.upstreamTimeout = getenvDurationDefault("UPSTREAM_TIMEOUT", cfg.upstreamTimeout)
	cfg.forecastDays = getenvIntDefault("FORECAST_DAYS", cfg.forecastDays)
	cfg.outboundRPS = getenvFloatDefault("OUTBOUND_RPS", cfg.outboundRPS)
	cfg.outboundBurst = getenvIntDefault("OUTBOUND_BURST", cfg.outboundBurst)

	cfg.rateMax = getenvIntDefault("RATE_MAX", cfg.rateMax)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", cfg.rateWindow)

	cfg.cacheTTL = getenvDurationDefault("CACHE_TTL", cfg.cacheTTL)
	cfg.cacheMaxEntries = getenvIntDefault("CACHE_MAX_ENTRIES", cfg.cacheMaxEntries)

	cfg.keyHeader = getenvDefault("RATE_KEY_HEADER", cfg.keyHeader)
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", cfg.trustXFF)
	cfg.addDebugHeaders = getenvBoolDefault("ADD_DEBUG_HEADERS", cfg.addDebugHeaders)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", cfg.concurrencyMax)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", cfg.concurrencyTimeout)

	cfg.statsBackend = strings.ToLower(getenvDefault("STATS_BACKEND", cfg.statsBackend))
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", cfg.statsRedisAddr)
	cfg.statsRedisPassword = getenvDefault("STATS_REDIS_PASSWORD", cfg.statsRedisPassword)
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", cfg.statsRedisDB)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", cfg.statsPrefix)
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", cfg.statsTTL)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", cfg.statsBucket)
	cfg.statsTrackKeys = getenvBoolDefault("STATS_TRACK_KEYS", cfg.statsTrackKeys)

	if cfg.rateMax <= 0 {
		return config{}, errors.New("RATE_MAX must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.cacheTTL <= 0 {
		return config{}, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.cacheMaxEntries <= 0 {
		return config{}, errors.New("CACHE_MAX_ENTRIES must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	switch cfg.statsBackend {
	case "", "memory", "prometheus":
	case "redis":
		if strings.TrimSpace(cfg.statsRedisAddr) == "" {
			return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_BACKEND=redis")
		}
	default:
		return config{}, errors.New("STATS_BACKEND must be one of: memory, redis, prometheus")
	}

	// A chave do provedor (WEATHER_API_KEY) NÃO é validada aqui de propósito:
	// ela é consultada a cada requisição pela camada de aplicação.
	return cfg, nil
}

func applyFile(cfg *config, fn string) error {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return err
	}

	raw = []byte(os.ExpandEnv(string(raw)))
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.ListenAddr != "" {
		cfg.listenAddr = fc.ListenAddr
	}
	if fc.Upstream.URL != "" {
		cfg.upstreamURL = fc.Upstream.URL
	}
	if err := applyDuration(&cfg.upstreamTimeout, fc.Upstream.Timeout); err != nil {
		return err
	}
	if fc.Upstream.ForecastDays > 0 {
		cfg.forecastDays = fc.Upstream.ForecastDays
	}
	if fc.Upstream.OutboundRPS > 0 {
		cfg.outboundRPS = fc.Upstream.OutboundRPS
	}
	if fc.Upstream.OutboundBurst > 0 {
		cfg.outboundBurst = fc.Upstream.OutboundBurst
	}
	if fc.Rate.Max > 0 {
		cfg.rateMax = fc.Rate.Max
	}
	if err := applyDuration(&cfg.rateWindow, fc.Rate.Window); err != nil {
		return err
	}
	if err := applyDuration(&cfg.cacheTTL, fc.Cache.TTL); err != nil {
		return err
	}
	if fc.Cache.MaxEntries > 0 {
		cfg.cacheMaxEntries = fc.Cache.MaxEntries
	}
	if fc.KeyHeader != "" {
		cfg.keyHeader = fc.KeyHeader
	}
	cfg.trustXFF = cfg.trustXFF || fc.TrustXFF
	cfg.addDebugHeaders = cfg.addDebugHeaders || fc.AddDebugHeaders
	if fc.Concurrency.Max > 0 {
		cfg.concurrencyMax = fc.Concurrency.Max
	}
	if err := applyDuration(&cfg.concurrencyTimeout, fc.Concurrency.Timeout); err != nil {
		return err
	}
	if fc.Stats.Backend != "" {
		cfg.statsBackend = strings.ToLower(fc.Stats.Backend)
	}
	if fc.Stats.RedisAddr != "" {
		cfg.statsRedisAddr = fc.Stats.RedisAddr
	}
	if fc.Stats.RedisDB != 0 {
		cfg.statsRedisDB = fc.Stats.RedisDB
	}
	if fc.Stats.Prefix != "" {
		cfg.statsPrefix = fc.Stats.Prefix
	}
	if err := applyDuration(&cfg.statsTTL, fc.Stats.TTL); err != nil {
		return err
	}
	if fc.Stats.Bucket != "" {
		cfg.statsBucket = fc.Stats.Bucket
	}
	cfg.statsTrackKeys = cfg.statsTrackKeys || fc.Stats.TrackKeys

	return nil
}

// applyDuration sobrescreve dst quando o campo do yaml veio preenchido.
func applyDuration(dst *time.Duration, v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

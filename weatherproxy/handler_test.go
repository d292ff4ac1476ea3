package weatherproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-gateway/weatherproxy/application"
	"weather-gateway/weatherproxy/domain"
	"weather-gateway/weatherproxy/infra"
)

type fakeTracker struct {
	limited bool
}

func (f fakeTracker) CheckAndRecord(domain.Key) bool { return f.limited }

type fakeFetcher struct {
	payload domain.Payload
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, _, _ string) (domain.Payload, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func staticKey(apiKey string) func() string {
	return func() string { return apiKey }
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, domain.Payload) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var body domain.Payload
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json body: %v", err)
		}
	}
	return w, body
}

func TestHandler_MissingLocationReturns400(t *testing.T) {
	h := Handler(Options{Service: application.Service{}})

	w, body := doGet(t, h, "http://example/api/weather")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("expected error field, got %v", body)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected permissive CORS on error, got %q", got)
	}
}

func TestHandler_PostReturns405(t *testing.T) {
	h := Handler(Options{Service: application.Service{}})

	r := httptest.NewRequest(http.MethodPost, "http://example/api/weather?location=Paris", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandler_OptionsShortCircuits(t *testing.T) {
	h := Handler(Options{Service: application.Service{}})

	r := httptest.NewRequest(http.MethodOptions, "http://example/api/weather", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Fatalf("expected allow-methods header, got %q", got)
	}
}

func TestHandler_RateLimitedGetsDemoPayload(t *testing.T) {
	fetcher := &fakeFetcher{payload: domain.Payload{"current": "real"}}
	h := Handler(Options{Service: application.Service{
		Tracker: fakeTracker{limited: true},
		Fetcher: fetcher,
		APIKey:  staticKey("k"),
	}})

	w, body := doGet(t, h, "http://example/api/weather?location=Paris")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on rate-limited degrade, got %d", w.Code)
	}
	if body["rateLimited"] != true {
		t.Fatalf("expected rateLimited=true, got %v", body["rateLimited"])
	}
	if body["cached"] != false {
		t.Fatalf("expected cached=false, got %v", body["cached"])
	}
	if fetcher.calls != 0 {
		t.Fatalf("expected upstream not to be called, got %d calls", fetcher.calls)
	}

	fc, ok := body["forecast"].(map[string]any)
	if !ok {
		t.Fatalf("expected forecast object, got %v", body["forecast"])
	}
	days, ok := fc["forecastday"].([]any)
	if !ok || len(days) != 3 {
		t.Fatalf("expected 3 synthetic forecast days, got %v", fc["forecastday"])
	}
}

func TestHandler_UpstreamErrorRelayed(t *testing.T) {
	fetcher := &fakeFetcher{err: &domain.UpstreamError{Status: 403, Message: "Invalid key", Code: 2006}}
	h := Handler(Options{Service: application.Service{
		Tracker: fakeTracker{},
		Fetcher: fetcher,
		APIKey:  staticKey("k"),
	}})

	w, body := doGet(t, h, "http://example/api/weather?location=Paris")
	if w.Code != 403 {
		t.Fatalf("expected upstream 403 relayed, got %d", w.Code)
	}
	if body["error"] != "Invalid key" {
		t.Fatalf("expected upstream message, got %v", body["error"])
	}
	if code, _ := body["code"].(float64); int(code) != 2006 {
		t.Fatalf("expected code=2006, got %v", body["code"])
	}
}

func TestHandler_MissingAPIKeyReturns500(t *testing.T) {
	h := Handler(Options{Service: application.Service{
		Tracker: fakeTracker{},
		Fetcher: &fakeFetcher{},
		APIKey:  staticKey(""),
	}})

	w, body := doGet(t, h, "http://example/api/weather?location=Paris")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 server config error, got %d", w.Code)
	}
	if body["error"] != "server configuration error" {
		t.Fatalf("expected generic config message, got %v", body["error"])
	}
}

func TestHandler_CacheFlowAndCaseInsensitiveKey(t *testing.T) {
	fetcher := &fakeFetcher{payload: domain.Payload{"location": "paris"}}
	h := Handler(Options{
		Service: application.Service{
			Tracker: infra.NewWindowStore(20, time.Hour),
			Cache:   infra.NewCache(10*time.Minute, 100),
			Fetcher: fetcher,
			APIKey:  staticKey("k"),
		},
		AddDebugHeaders: true,
	})

	// 1) miss: vai no provedor e guarda
	w1, body1 := doGet(t, h, "http://example/api/weather?location=Paris")
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	if body1["cached"] != false {
		t.Fatalf("expected cached=false on miss, got %v", body1["cached"])
	}
	if got := w1.Header().Get("X-Weather-Cache"); got != "MISS" {
		t.Fatalf("expected X-Weather-Cache=MISS, got %q", got)
	}

	// 2) hit: outra caixa da mesma localização cai na mesma chave
	w2, body2 := doGet(t, h, "http://example/api/weather?location=paris")
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w2.Code)
	}
	if body2["cached"] != true {
		t.Fatalf("expected cached=true on hit, got %v", body2["cached"])
	}
	if age, ok := body2["cacheAge"].(float64); !ok || age < 0 {
		t.Fatalf("expected numeric cacheAge, got %v", body2["cacheAge"])
	}
	if got := w2.Header().Get("X-Weather-Cache"); got != "HIT" {
		t.Fatalf("expected X-Weather-Cache=HIT, got %q", got)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", fetcher.calls)
	}
}

func TestHandler_RecordsStatsBestEffort(t *testing.T) {
	stats := infra.NewMemoryStatsStore(infra.WithTrackKeys(true))
	h := Handler(Options{
		Service: application.Service{Tracker: fakeTracker{limited: true}},
		Stats:   stats,
	})

	_, _ = doGet(t, h, "http://example/api/weather?location=Paris")

	total := stats.Total()
	if total.Served != 1 || total.Limited != 1 {
		t.Fatalf("expected served=1 limited=1, got %+v", total)
	}
	if got := stats.BySource()[domain.SourceDemo]; got != 1 {
		t.Fatalf("expected demo source counted once, got %d", got)
	}
}

package weatherproxy

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"weather-gateway/weatherproxy/application"
	"weather-gateway/weatherproxy/domain"

	"github.com/sirupsen/logrus"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Service application.Service
	Stats   domain.StatsStore

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool

	// AddDebugHeaders liga X-Weather-Client / X-Weather-Cache / X-Weather-Cache-Age.
	AddDebugHeaders bool

	Log *logrus.Logger
}

func DefaultKeyFunc(keyHeader string, trustProxyHeaders bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustProxyHeaders {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return ip
					}
				}
			}
			if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
				return rip
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Handler devolve o endpoint GET do proxy de clima.
//
// Toda resposta (inclusive erro) sai com CORS permissivo. Estatística é
// best-effort: erro de Record nunca derruba a requisição.
func Handler(opts Options) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodGet:
		default:
			writeJSON(w, http.StatusMethodNotAllowed, domain.Payload{"error": "method not allowed"})
			return
		}

		location := r.URL.Query().Get("location")
		if location == "" {
			writeJSON(w, http.StatusBadRequest, domain.Payload{"error": "location parameter is required"})
			return
		}

		key := domain.Key(opts.KeyFn(r))

		res := opts.Service.Serve(r.Context(), location, key)

		if opts.Stats != nil {
			// best-effort: erro de estatística não derruba a requisição
			err := opts.Stats.Record(r.Context(), domain.StatsEvent{
				Key:      key,
				Location: strings.ToLower(location),
				Source:   res.Source,
				Limited:  res.Limited,
				At:       time.Now(),
			})
			if err != nil && opts.Log != nil {
				opts.Log.WithError(err).Debug("stats record failed")
			}
		}

		if opts.AddDebugHeaders {
			w.Header().Set("X-Weather-Client", string(key))
			w.Header().Set("X-Weather-Cache", cacheState(res))
			if res.Source == domain.SourceCache {
				w.Header().Set("X-Weather-Cache-Age", formatInt(res.CacheAge))
			}
		}

		writeJSON(w, res.Status, res.Body)
	})
}

func cacheState(res application.Result) string {
	switch res.Source {
	case domain.SourceCache:
		return "HIT"
	case domain.SourceDemo:
		return "DEMO"
	default:
		return "MISS"
	}
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body domain.Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

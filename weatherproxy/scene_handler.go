package weatherproxy

import (
	"net/http"

	"weather-gateway/weatherproxy/domain"
	"weather-gateway/weatherproxy/scene"
)

// SceneHandler traduz uma condição textual em elementos de cena para o
// cliente de visualização.
//
// GET /api/scene?condition=Partly+cloudy&is_day=1
// is_day ausente assume dia; "0" significa noite.
func SceneHandler() http.Handler {
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

		condition := r.URL.Query().Get("condition")
		if condition == "" {
			writeJSON(w, http.StatusBadRequest, domain.Payload{"error": "condition parameter is required"})
			return
		}
		isDay := r.URL.Query().Get("is_day") != "0"

		cat, partly := scene.Classify(condition)
		sel := scene.Select(cat, isDay, partly)

		writeJSON(w, http.StatusOK, domain.Payload{
			"category":     string(cat),
			"partlyCloudy": partly,
			"isDay":        isDay,
			"scene":        sel,
		})
	})
}

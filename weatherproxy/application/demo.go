package application

import (
	"math"
	"time"

	"weather-gateway/weatherproxy/domain"
)

// demoDays são os três dias sintéticos de previsão, com valores fixos e
// realistas. As datas são derivadas do relógio do servidor na hora de montar.
var demoDays = []struct {
	condition string
	maxF      float64
	minF      float64
	rainPct   float64
}{
	{"Partly cloudy", 74, 58, 10},
	{"Sunny", 78, 60, 0},
	{"Light rain", 69, 55, 70},
}

// DemoPayload monta uma resposta sintética completa no formato do provedor,
// usada quando o cliente estourou o rate limit.
//
// Campos de hora recebem a hora atual do servidor; o resto são valores fixos.
// O corpo sai marcado com rateLimited=true e cached=false.
func DemoPayload(location string, now time.Time) domain.Payload {
	name := location
	if name == "" {
		name = "Demo City"
	}

	forecast := make([]any, 0, len(demoDays))
	for i, d := range demoDays {
		date := now.AddDate(0, 0, i)
		forecast = append(forecast, domain.Payload{
			"date": date.Format("2006-01-02"),
			"day": domain.Payload{
				"maxtemp_f": d.maxF,
				"maxtemp_c": toCelsius(d.maxF),
				"mintemp_f": d.minF,
				"mintemp_c": toCelsius(d.minF),
				"daily_chance_of_rain": d.rainPct,
				"condition":            domain.Payload{"text": d.condition},
			},
		})
	}

	return domain.Payload{
		"location": domain.Payload{
			"name":      name,
			"localtime": now.Format("2006-01-02 15:04"),
		},
		"current": domain.Payload{
			"temp_f":      72.0,
			"temp_c":      toCelsius(72),
			"condition":   domain.Payload{"text": "Partly cloudy"},
			"is_day":      isDayFlag(now),
			"humidity":    55.0,
			"wind_mph":    6.0,
			"feelslike_f": 72.0,
		},
		"forecast":    domain.Payload{"forecastday": forecast},
		"rateLimited": true,
		"cached":      false,
	}
}

func toCelsius(f float64) float64 {
	return math.Round((f-32)*5/9*10) / 10
}

// isDayFlag segue a convenção do provedor: 1 para dia, 0 para noite.
func isDayFlag(now time.Time) int {
	if h := now.Hour(); h >= 6 && h < 18 {
		return 1
	}
	return 0
}

// Package scene faz o mapeamento puro de condição textual do provedor para
// uma categoria fechada e para os elementos visuais que o cliente 3D monta
// (sol/lua, nuvens, chuva, neve, tempestade).
//
// Sem estado e sem dependências: é a mesma classificação por substring que o
// cliente faria, servida centralizada para clientes sem essa tabela.
package scene

import "strings"

type Category string

const (
	Sunny  Category = "sunny"
	Cloudy Category = "cloudy"
	Rainy  Category = "rainy"
	Snowy  Category = "snowy"
	Stormy Category = "stormy"
	Foggy  Category = "foggy"
	None   Category = ""
)

// Classify reduz o texto livre do provedor a uma categoria.
// O segundo retorno indica "parcialmente nublado".
//
// A ordem importa: "patchy rain with thunder" é tempestade, não chuva.
func Classify(condition string) (Category, bool) {
	c := strings.ToLower(condition)
	partly := strings.Contains(c, "partly")

	switch {
	case containsAny(c, "thunder", "storm"):
		return Stormy, partly
	case containsAny(c, "snow", "blizzard", "sleet", "ice"):
		return Snowy, partly
	case containsAny(c, "rain", "drizzle", "shower"):
		return Rainy, partly
	case containsAny(c, "fog", "mist", "haze"):
		return Foggy, partly
	case containsAny(c, "cloud", "overcast"):
		return Cloudy, partly
	case containsAny(c, "sun", "clear"):
		return Sunny, partly
	}
	return None, partly
}

// Scene é a combinação fixa de elementos que o cliente deve exibir.
type Scene struct {
	Sun    bool   `json:"sun"`
	Moon   bool   `json:"moon"`
	Clouds bool   `json:"clouds"`
	Rain   bool   `json:"rain"`
	Snow   bool   `json:"snow"`
	Storm  bool   `json:"storm"`
	Label  string `json:"label"`
}

// Select escolhe os elementos para a categoria, considerando dia/noite e o
// flag de parcialmente nublado. Categoria desconhecida vira céu limpo.
func Select(cat Category, isDay, partly bool) Scene {
	s := Scene{Sun: isDay, Moon: !isDay}

	switch cat {
	case Cloudy:
		s.Clouds = true
		if partly {
			s.Label = "Partly Cloudy"
		} else {
			// nublado fechado esconde sol/lua
			s.Sun, s.Moon = false, false
			s.Label = "Cloudy"
		}
	case Rainy:
		s.Sun, s.Moon = false, false
		s.Clouds, s.Rain = true, true
		s.Label = "Rainy"
	case Snowy:
		s.Sun, s.Moon = false, false
		s.Clouds, s.Snow = true, true
		s.Label = "Snowy"
	case Stormy:
		s.Sun, s.Moon = false, false
		s.Clouds, s.Rain, s.Storm = true, true, true
		s.Label = "Stormy"
	case Foggy:
		s.Sun, s.Moon = false, false
		s.Clouds = true
		s.Label = "Foggy"
	default:
		if isDay {
			s.Label = "Sunny"
		} else {
			s.Label = "Clear"
		}
		if partly {
			s.Clouds = true
			s.Label = "Partly Cloudy"
		}
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

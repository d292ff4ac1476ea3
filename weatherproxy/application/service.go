package application

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"weather-gateway/weatherproxy/domain"

	"github.com/sirupsen/logrus"
)

// Service concentra a política de atendimento por requisição.
//
// Os stores entram por injeção (nada de singleton de pacote): trocar qualquer
// um deles por uma implementação externa compartilhada vira só uma questão de
// wiring. Ele não sabe nada sobre HTTP (headers/CORS), apenas produz um Result.
type Service struct {
	Tracker domain.RateTracker
	Cache   domain.ResponseCache
	Fetcher domain.Fetcher

	// APIKey devolve a chave do provedor. É consultada a cada requisição;
	// chave ausente vira erro de configuração do servidor (500), distinto
	// de erro do provedor.
	APIKey func() string

	Log *logrus.Logger
}

// Result é a decisão final para o adapter HTTP escrever.
type Result struct {
	Status int
	Body   domain.Payload

	// Source indica de onde veio o corpo: demo, cache, upstream ou error.
	Source string
	// CacheAge em segundos, válido quando Source == cache.
	CacheAge int
	// Limited marca que a requisição foi degradada para payload demo.
	Limited bool
}

// Serve executa a máquina de estados da política para uma localização.
//
// Cliente limitado NÃO recebe 429: a política degrada com elegância e devolve
// 200 com payload demo marcado rateLimited=true, para o cliente sempre ter
// algo renderizável. Sem retry em nenhum passo: uma falha do provedor é
// devolvida imediatamente.
func (s Service) Serve(ctx context.Context, location string, client domain.Key) Result {
	if s.Tracker != nil && s.Tracker.CheckAndRecord(client) {
		return Result{
			Status:  200,
			Body:    DemoPayload(location, time.Now()),
			Source:  domain.SourceDemo,
			Limited: true,
		}
	}

	cacheKey := strings.ToLower(location)

	if s.Cache != nil {
		if p, age, ok := s.Cache.Get(cacheKey); ok {
			secs := int(math.Round(age.Seconds()))
			return Result{
				Status:   200,
				Body:     augment(p, domain.Payload{"cached": true, "cacheAge": secs}),
				Source:   domain.SourceCache,
				CacheAge: secs,
			}
		}
	}

	var apiKey string
	if s.APIKey != nil {
		apiKey = s.APIKey()
	}
	if apiKey == "" {
		s.warn(nil, "weather api key is not configured")
		return Result{
			Status: 500,
			Body:   domain.Payload{"error": "server configuration error"},
			Source: domain.SourceError,
		}
	}

	if s.Fetcher == nil {
		s.warn(nil, "no upstream fetcher configured")
		return Result{
			Status: 500,
			Body:   domain.Payload{"error": "internal server error"},
			Source: domain.SourceError,
		}
	}

	p, err := s.Fetcher.Fetch(ctx, apiKey, location)
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			s.warn(err, "upstream fetch failed")
			body := domain.Payload{"error": ue.Message}
			if ue.Code != 0 {
				body["code"] = ue.Code
			}
			return Result{Status: ue.Status, Body: body, Source: domain.SourceError}
		}
		s.warn(err, "unexpected fetch failure")
		return Result{
			Status: 500,
			Body:   domain.Payload{"error": "internal server error"},
			Source: domain.SourceError,
		}
	}

	if s.Cache != nil {
		s.Cache.Put(cacheKey, p)
	}
	return Result{
		Status: 200,
		Body:   augment(p, domain.Payload{"cached": false}),
		Source: domain.SourceUpstream,
	}
}

// augment copia o nível superior do payload antes de anotar, para não
// contaminar o que ficou guardado no cache.
func augment(p domain.Payload, extra domain.Payload) domain.Payload {
	out := make(domain.Payload, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// warn loga detalhe do lado servidor; a mensagem ao cliente fica genérica.
func (s Service) warn(err error, msg string) {
	if s.Log == nil {
		return
	}
	if err != nil {
		s.Log.WithError(err).Warn(msg)
		return
	}
	s.Log.Warn(msg)
}

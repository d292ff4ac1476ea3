package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weather-gateway/weatherproxy/domain"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// Client implementa domain.Fetcher contra a API do provedor de clima.
//
// Uma chamada por Fetch, sem retry. Erros de transporte viram
// {500, "fetch failed"}; status não-2xx relê o corpo de erro do provedor.
type Client struct {
	httpClient *http.Client
	baseURL    string
	days       int
	timeout    time.Duration
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func WithForecastDays(n int) ClientOption {
	return func(c *Client) { c.days = n }
}

// WithTimeout limita a duração de cada chamada via deadline de contexto.
// Zero desliga o limite (uma chamada pendurada segura a requisição).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithOutboundLimit aplica um token bucket às chamadas de saída, para não
// estourar a cota do provedor. O Fetch espera a vaga, não rejeita.
func WithOutboundLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		days:       3,
		timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implementa domain.Fetcher.
func (c *Client) Fetch(ctx context.Context, apiKey, location string) (domain.Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.UpstreamError{Status: http.StatusInternalServerError, Message: "fetch failed"}
		}
	}

	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("q", location)
	q.Set("days", strconv.Itoa(c.days))
	q.Set("tz", zoneName(time.Now()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast.json?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.UpstreamError{Status: http.StatusInternalServerError, Message: "fetch failed"}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Status: http.StatusInternalServerError, Message: "fetch failed"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseUpstreamError(resp)
	}

	var payload domain.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.UpstreamError{Status: http.StatusInternalServerError, Message: "fetch failed"}
	}
	return payload, nil
}

// zoneName resolve o fuso do servidor para a query do provedor. Quando o fuso
// vem de /etc/localtime sem nome, Location().String() devolve o literal
// "Local"; nesse caso cai para a abreviação corrente (UTC, CET, -03...).
func zoneName(now time.Time) string {
	name := now.Location().String()
	if name == "" || name == "Local" {
		name, _ = now.Zone()
	}
	return name
}

// parseUpstreamError extrai {"error":{"message","code"}} do corpo quando der;
// corpo ausente ou ilegível mantém a mensagem genérica.
func parseUpstreamError(resp *http.Response) *domain.UpstreamError {
	out := &domain.UpstreamError{Status: resp.StatusCode, Message: "weather provider error"}

	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error.Message != "" {
			out.Message = body.Error.Message
		}
		out.Code = body.Error.Code
	}
	return out
}

// Package weatherproxy fornece o adapter HTTP (net/http) do proxy de clima.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: a política por requisição (rate limit -> cache -> fetch) sem net/http
//   - infra: implementações concretas (janela deslizante, cache TTL, fetcher, stats)
//   - weatherproxy (este pacote): handler HTTP + extração de identidade +
//     tradução da política para status/headers/JSON
//
// Fluxo por requisição:
//
//  1. Gate de método/CORS: OPTIONS responde 200 sem corpo; só GET passa (outros: 405)
//  2. Valida o parâmetro `location` (ausente: 400)
//  3. Extrai a identidade do cliente (header/XFF/X-Real-IP/RemoteAddr)
//  4. Chama a camada application para obter o Result e escreve o JSON
//
// Cliente limitado nunca vê 429: recebe 200 com payload demo rateLimited=true.
//
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam o
// comportamento, como RATE_MAX, RATE_WINDOW, CACHE_TTL e UPSTREAM_TIMEOUT.
package weatherproxy

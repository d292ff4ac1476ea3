// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - WindowStore: janela deslizante de requisições por identidade
//   - Cache: cache de respostas com TTL e limite aproximado de tamanho
//   - Client: fetcher HTTP do provedor de clima, com throttle de saída
//   - stats: stores de estatística em memória, Redis e Prometheus
package infra

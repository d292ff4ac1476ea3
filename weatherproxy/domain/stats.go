package domain

import (
	"context"
	"time"
)

// Fontes possíveis do corpo de uma resposta servida.
const (
	SourceDemo     = "demo"
	SourceCache    = "cache"
	SourceUpstream = "upstream"
	SourceError    = "error"
)

// StatsEvent representa o desfecho da política para uma requisição.
//
// Observação: cuidado com cardinalidade (ex.: salvar Key/Location sem controle
// pode explodir o número de chaves em uma base como Redis/Prometheus).
type StatsEvent struct {
	Key      Key
	Location string
	Source   string
	Limited  bool

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas da política.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O adapter HTTP deve tratar erro como best-effort (não derrubar request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

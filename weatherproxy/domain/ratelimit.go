package domain

// Key identifica o cliente para fins de rate limit (ex: IP, header dedicado).
//
// A identidade não é autenticada e não tem garantia de unicidade atrás de
// proxies/NAT; serve apenas como chave de contagem.
type Key string

// RateTracker decide se uma identidade estourou a janela deslizante de
// requisições.
//
// Semântica de CheckAndRecord: retorna true quando a identidade está limitada.
// A tentativa que dispara o limite NÃO é registrada; os acertos anteriores
// dentro da janela permanecem contando.
type RateTracker interface {
	CheckAndRecord(Key) bool
}

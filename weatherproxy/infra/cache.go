package infra

import (
	"sync"
	"time"

	"weather-gateway/weatherproxy/domain"
)

// Cache implementa domain.ResponseCache com TTL e limite aproximado de tamanho.
//
// Vencimento é checado, não imposto: entrada velha fica no mapa até ser
// sobrescrita pelo próximo Put. Quando a contagem passa do limite, UMA entrada
// sai por Put, a mais antiga por ordem de inserção (não LRU).
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	order      []string

	now func() time.Time
}

type cacheEntry struct {
	payload domain.Payload
	at      time.Time
}

type CacheOption func(*Cache)

// WithCacheClock troca a fonte de tempo (testes).
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func NewCache(ttl time.Duration, maxEntries int, opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration { return c.ttl }

// Get implementa domain.ResponseCache. A idade devolvida é now - stored.
func (c *Cache) Get(key string) (domain.Payload, time.Duration, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	age := now.Sub(ent.at)
	if age >= c.ttl {
		// tratado como miss; a entrada fica até o próximo Put da mesma chave
		return nil, 0, false
	}
	return ent.payload, age, true
}

// Put guarda/sobrescreve incondicionalmente e depois aplica o limite.
func (c *Cache) Put(key string, p domain.Payload) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, existed := c.entries[key]
	c.entries[key] = cacheEntry{payload: p, at: now}
	if !existed {
		c.order = append(c.order, key)
	}

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest remove exatamente uma entrada, a primeira por ordem de inserção.
// Chamar com c.mu já adquirido.
func (c *Cache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

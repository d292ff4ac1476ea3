package infra

import (
	"sync"
	"time"

	"weather-gateway/weatherproxy/domain"
)

// WindowStore implementa domain.RateTracker com janela deslizante por
// identidade: guarda os timestamps das requisições aceitas e poda os que
// saíram da janela. A poda é preguiçosa, feita a cada consulta.
//
// O runtime aqui é genuinamente multi-thread, então cada sequência
// filter-then-append roda sob mutex.
type WindowStore struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[domain.Key][]time.Time

	now          func() time.Time
	cleanupEvery time.Duration
}

type WindowOption func(*WindowStore)

// WithWindowClock troca a fonte de tempo (testes).
func WithWindowClock(now func() time.Time) WindowOption {
	return func(s *WindowStore) { s.now = now }
}

func WithWindowCleanupEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.cleanupEvery = d }
}

func NewWindowStore(max int, window time.Duration, opts ...WindowOption) *WindowStore {
	s := &WindowStore{
		window:       window,
		max:          max,
		hits:         make(map[domain.Key][]time.Time),
		now:          time.Now,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WindowStore) Max() int              { return s.max }
func (s *WindowStore) Window() time.Duration { return s.window }

// CheckAndRecord implementa domain.RateTracker.
//
// Retorna true quando a identidade já tem `max` acertos dentro da janela.
// Nesse caso a tentativa atual NÃO entra na contagem; os acertos anteriores
// continuam registrados.
func (s *WindowStore) CheckAndRecord(key domain.Key) bool {
	now := s.now()
	cutoff := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.hits[key]
	kept := make([]time.Time, 0, len(prev)+1)
	for _, t := range prev {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.max {
		s.hits[key] = kept
		return true
	}

	s.hits[key] = append(kept, now)
	return false
}

// Cleanup remove identidades cujos timestamps saíram todos da janela.
// Higiene de memória apenas; nunca muda o resultado de CheckAndRecord.
func (s *WindowStore) Cleanup() {
	cutoff := s.now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, ts := range s.hits {
		live := false
		for _, t := range ts {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(s.hits, key)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa identidades inativas
// periodicamente. Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar
// context aqui. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}

package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const codeLength = 5

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	defaults Rules
	catalog  Catalog
	newCode  func() string
	now      func() time.Time
}

type RegistryOption func(*Registry)

// WithCatalog constrains nominations in every new session to cat.
func WithCatalog(cat Catalog) RegistryOption {
	return func(r *Registry) { r.catalog = cat }
}

// WithDefaults sets the rules used for fields a Create call leaves zero.
func WithDefaults(rules Rules) RegistryOption {
	return func(r *Registry) { r.defaults = rules }
}

func WithCodeGenerator(fn func() string) RegistryOption {
	return func(r *Registry) { r.newCode = fn }
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		defaults: DefaultRules(),
		newCode:  func() string { return randomCode(codeLength) },
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Defaults returns the rules new sessions start from.
func (r *Registry) Defaults() Rules {
	return r.defaults
}

// Create stores a fresh lobby under a code no live session uses. Zero fields
// in rules fall back to the registry defaults.
func (r *Registry) Create(rules Rules) (code string, hostToken string, err error) {
	if rules.StartingBudget == 0 {
		rules.StartingBudget = r.defaults.StartingBudget
	}
	if rules.MaxSlots == 0 {
		rules.MaxSlots = r.defaults.MaxSlots
	}
	if rules.MinOpeningBid == 0 {
		rules.MinOpeningBid = r.defaults.MinOpeningBid
	}
	if rules.RaiseIncrement == 0 {
		rules.RaiseIncrement = r.defaults.RaiseIncrement
	}
	if rules.LogTail == 0 {
		rules.LogTail = r.defaults.LogTail
	}
	if err := rules.validate(); err != nil {
		return "", "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code = r.newCode()
	for r.sessions[code] != nil {
		code = r.newCode()
	}
	hostToken = uuid.NewString()
	r.sessions[code] = newSession(code, hostToken, rules, r.catalog, r.now)
	return code, hostToken, nil
}

func (r *Registry) Get(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.sessions[code]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Evict(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[code] == nil {
		return ErrSessionNotFound
	}
	delete(r.sessions, code)
	return nil
}

// EvictIdle removes sessions whose last mutation is older than ttl and
// returns their codes. A non-positive ttl evicts nothing.
func (r *Registry) EvictIdle(ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}
	cutoff := r.now().UTC().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []string
	for code, s := range r.sessions {
		if s.UpdatedAt().Before(cutoff) {
			delete(r.sessions, code)
			evicted = append(evicted, code)
		}
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunJanitor calls EvictIdle every interval until ctx is done. onEvict, if
// set, is told about every evicted code.
func (r *Registry) RunJanitor(ctx context.Context, ttl, interval time.Duration, onEvict func(code string)) {
	if ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, code := range r.EvictIdle(ttl) {
				if onEvict != nil {
					onEvict(code)
				}
			}
		}
	}
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

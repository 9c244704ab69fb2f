package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestNewRegistry(t *testing.T) {
	rm := NewRegistry()
	if rm.sessions == nil {
		t.Fatal("sessions map should be initialized")
	}
	if rm.Len() != 0 {
		t.Fatal("registry should start empty")
	}
	if rm.Defaults() != DefaultRules() {
		t.Fatalf("expected default rules, got %+v", rm.Defaults())
	}
}

func TestCreateSession(t *testing.T) {
	rm := NewRegistry()

	code, hostToken, err := rm.Create(Rules{StartingBudget: 500})
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if len(code) != codeLength {
		t.Fatalf("expected %d character code, got %q", codeLength, code)
	}
	if hostToken == "" {
		t.Fatal("host token should not be empty")
	}

	s, err := rm.Get(code)
	if err != nil {
		t.Fatalf("should be able to retrieve created session: %v", err)
	}
	if s.Code != code || s.HostToken != hostToken {
		t.Fatalf("session does not match create result: %s/%s", s.Code, s.HostToken)
	}
	if s.Status() != StatusLobby {
		t.Fatalf("expected lobby, got %s", s.Status())
	}
	if s.Rules.StartingBudget != 500 {
		t.Fatalf("expected budget 500, got %d", s.Rules.StartingBudget)
	}
	if s.Rules.MaxSlots != DefaultMaxSlots || s.Rules.RaiseIncrement != DefaultRaiseIncrement {
		t.Fatalf("zero fields should fall back to defaults, got %+v", s.Rules)
	}
}

func TestCreateSession_CustomDefaults(t *testing.T) {
	rm := NewRegistry(WithDefaults(Rules{StartingBudget: 200, MaxSlots: 3, MinOpeningBid: 10, RaiseIncrement: 5, LogTail: 4}))
	code, _, err := rm.Create(Rules{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s, _ := rm.Get(code)
	if s.Rules.StartingBudget != 200 || s.Rules.MinOpeningBid != 10 {
		t.Fatalf("expected registry defaults, got %+v", s.Rules)
	}
}

func TestCreateSession_InvalidRules(t *testing.T) {
	rm := NewRegistry()
	for _, rules := range []Rules{
		{StartingBudget: -1},
		{MaxSlots: -3},
		{RaiseIncrement: -25},
		{LogTail: -1},
	} {
		if _, _, err := rm.Create(rules); !errors.Is(err, ErrInvalidRules) {
			t.Fatalf("expected invalid rules for %+v, got %v", rules, err)
		}
	}
	if rm.Len() != 0 {
		t.Fatal("invalid rules should not create a session")
	}
}

func TestCreateSession_CodeCollision(t *testing.T) {
	codes := []string{"AAAAA", "AAAAA", "AAAAA", "BBBBB"}
	rm := NewRegistry(WithCodeGenerator(func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}))

	first, _, err := rm.Create(Rules{})
	if err != nil || first != "AAAAA" {
		t.Fatalf("expected AAAAA, got %q (%v)", first, err)
	}
	second, _, err := rm.Create(Rules{})
	if err != nil || second != "BBBBB" {
		t.Fatalf("expected collision to be retried into BBBBB, got %q (%v)", second, err)
	}
	if rm.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", rm.Len())
	}
}

func TestGet_NotFound(t *testing.T) {
	rm := NewRegistry()
	if _, err := rm.Get("NOPE1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestEvict(t *testing.T) {
	rm := NewRegistry()
	code, _, _ := rm.Create(Rules{})
	if err := rm.Evict(code); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if _, err := rm.Get(code); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("evicted session should be gone, got %v", err)
	}
	if err := rm.Evict(code); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second evict should fail, got %v", err)
	}
}

func TestEvictIdle(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	rm := NewRegistry(WithClock(clock.Now))

	idle, _, _ := rm.Create(Rules{})
	busy, _, _ := rm.Create(Rules{})

	clock.Add(50 * time.Minute)
	s, _ := rm.Get(busy)
	if _, err := s.Join("A", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	clock.Add(20 * time.Minute)

	if got := rm.EvictIdle(0); got != nil {
		t.Fatalf("zero ttl should evict nothing, got %v", got)
	}
	got := rm.EvictIdle(time.Hour)
	if len(got) != 1 || got[0] != idle {
		t.Fatalf("expected only %s evicted, got %v", idle, got)
	}
	if _, err := rm.Get(busy); err != nil {
		t.Fatalf("recently used session should survive: %v", err)
	}
}

func TestRunJanitor(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	rm := NewRegistry(WithClock(clock.Now))
	code, _, _ := rm.Create(Rules{})
	clock.Add(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evicted := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		rm.RunJanitor(ctx, time.Hour, 5*time.Millisecond, func(c string) { evicted <- c })
		close(done)
	}()

	select {
	case got := <-evicted:
		if got != code {
			t.Fatalf("expected %s evicted, got %s", code, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not evict idle session")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop on cancel")
	}
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := randomCode(codeLength)
		for _, r := range c {
			if r == 'O' || r == '0' || r == 'I' || r == '1' {
				t.Fatalf("code %q contains an ambiguous character", c)
			}
		}
	}
}

package game

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Catalog is the set of nominable item names. A session without one
// accepts free-text nominations.
type Catalog interface {
	Resolve(name string) (string, bool)
	Names() []string
}

// Session is one auction draft. Every exported method is atomic: mutations
// hold the write lock for their whole check-then-apply sequence, reads take
// a deep copy under the read lock.
type Session struct {
	Code      string
	CreatedAt time.Time
	Rules     Rules

	HostToken string

	catalog Catalog
	now     func() time.Time

	mu        sync.RWMutex
	phase     phase
	log       []string
	version   uint64
	updatedAt time.Time
}

func newSession(code, hostToken string, rules Rules, cat Catalog, now func() time.Time) *Session {
	if cat != nil && len(cat.Names()) == 0 {
		cat = nil
	}
	t := now().UTC()
	return &Session{
		Code:      code,
		CreatedAt: t,
		Rules:     rules,
		HostToken: hostToken,
		catalog:   cat,
		now:       now,
		phase:     &lobbyPhase{},
		log:       []string{},
		updatedAt: t,
	}
}

// commit records a successful mutation. Callers hold s.mu.
func (s *Session) commit(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
	s.version++
	s.updatedAt = s.now().UTC()
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase.status()
}

// FreeText reports whether nominations accept any name.
func (s *Session) FreeText() bool {
	return s.catalog == nil
}

// UpdatedAt is the time of the last successful mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Code:         s.Code,
		Status:       s.phase.status(),
		Version:      s.version,
		Rules:        s.Rules,
		CreatedAt:    s.CreatedAt,
		Participants: []ParticipantView{},
		FreeText:     s.catalog == nil,
		Log:          s.logTail(),
	}
	switch p := s.phase.(type) {
	case *lobbyPhase:
		snap.Lobby = make([]Entrant, len(p.entrants))
		copy(snap.Lobby, p.entrants)
	case *draftPhase:
		snap.Participants = p.ledger.views(s.Rules.MinOpeningBid)
		snap.TurnIndex = p.turn
		snap.Nominator = p.nominator()
		if p.auction != nil {
			snap.Auction = &AuctionView{
				Auction:    *p.auction,
				MinNextBid: p.auction.CurrentBid + s.Rules.RaiseIncrement,
			}
		}
	case *finishedPhase:
		snap.Participants = p.ledger.views(s.Rules.MinOpeningBid)
		snap.TurnIndex = p.turn
	}
	return snap
}

func (s *Session) logTail() []string {
	start := len(s.log) - s.Rules.LogTail
	if start < 0 {
		start = 0
	}
	out := make([]string, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}

// FullLog returns every activity entry recorded so far.
func (s *Session) FullLog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// AvailableItems lists catalog names that have not been awarded yet, sorted.
// It is empty in free-text mode.
func (s *Session) AvailableItems() []string {
	if s.catalog == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var l *Ledger
	switch p := s.phase.(type) {
	case *draftPhase:
		l = p.ledger
	case *finishedPhase:
		l = p.ledger
	}
	names := s.catalog.Names()
	out := make([]string, 0, len(names))
	for _, n := range names {
		if l != nil && l.IsAwarded(n) {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *Session) finish(turn int, ledger *Ledger) {
	s.phase = &finishedPhase{ledger: ledger, turn: turn}
	s.commit("Draft finished.")
}

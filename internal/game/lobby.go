package game

import (
	"strings"
)

// Join registers name in the lobby. Once the draft has started the caller
// gets ErrDraftStarted together with a valid snapshot and should be treated
// as a viewer.
func (s *Session) Join(name, icon string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.phase.(*lobbyPhase)
	if !ok {
		return s.snapshot(), ErrDraftStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrEmptyDisplayName
	}
	if lobby.has(name) {
		return Snapshot{}, ErrDuplicateName
	}
	lobby.entrants = append(lobby.entrants, Entrant{Name: name, Icon: strings.TrimSpace(icon), JoinedAt: s.now().UTC()})
	s.commit("%s joined the lobby.", name)
	return s.snapshot(), nil
}

// StartDraft freezes the lobby into the participant list and opens the
// first turn.
func (s *Session) StartDraft() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.phase.(*lobbyPhase)
	if !ok {
		return Snapshot{}, ErrInvalidPhase
	}
	if len(lobby.entrants) < 2 {
		return Snapshot{}, ErrInsufficientPlayers
	}
	d := &draftPhase{
		ledger: newLedger(lobby.entrants, s.Rules.StartingBudget, s.Rules.MaxSlots),
	}
	s.phase = d
	s.commit("Draft started with %d players.", len(d.ledger.participants))
	if !d.settle(s.Rules.MinOpeningBid) {
		s.finish(d.turn, d.ledger)
		return s.snapshot(), nil
	}
	s.commit("%s nominates first.", d.nominator())
	return s.snapshot(), nil
}

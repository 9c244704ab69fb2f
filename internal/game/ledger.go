package game

import (
	"fmt"
	"strings"
)

// Ledger tracks budgets and rosters for the frozen participant list of a
// draft. It is not safe for concurrent use; Session serializes access.
type Ledger struct {
	participants []string
	icons        map[string]string
	budgets      map[string]int
	rosters      map[string][]RosterEntry
	awarded      map[string]string // item key -> owner
	maxSlots     int
	startBudget  int
}

func newLedger(entrants []Entrant, startingBudget, maxSlots int) *Ledger {
	l := &Ledger{
		participants: make([]string, 0, len(entrants)),
		icons:        make(map[string]string, len(entrants)),
		budgets:      make(map[string]int, len(entrants)),
		rosters:      make(map[string][]RosterEntry, len(entrants)),
		awarded:      make(map[string]string),
		maxSlots:     maxSlots,
		startBudget:  startingBudget,
	}
	for _, e := range entrants {
		l.participants = append(l.participants, e.Name)
		l.icons[e.Name] = e.Icon
		l.budgets[e.Name] = startingBudget
		l.rosters[e.Name] = []RosterEntry{}
	}
	return l
}

func itemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (l *Ledger) has(p string) bool {
	_, ok := l.budgets[p]
	return ok
}

func (l *Ledger) Budget(p string) int { return l.budgets[p] }

func (l *Ledger) SlotsUsed(p string) int { return len(l.rosters[p]) }

// IsAwarded reports whether item already sits in some roster.
func (l *Ledger) IsAwarded(item string) bool {
	_, ok := l.awarded[itemKey(item)]
	return ok
}

// Eligible reports whether p may still nominate: a free slot and enough
// budget for the opening bid.
func (l *Ledger) Eligible(p string, minOpeningBid int) bool {
	return l.has(p) && len(l.rosters[p]) < l.maxSlots && l.budgets[p] >= minOpeningBid
}

// Full reports whether every roster is at capacity.
func (l *Ledger) Full() bool {
	for _, p := range l.participants {
		if len(l.rosters[p]) < l.maxSlots {
			return false
		}
	}
	return true
}

// check validates an award without applying it.
func (l *Ledger) check(p, item string, price int) error {
	if !l.has(p) {
		return fmt.Errorf("award to %q: %w", p, ErrUnknownParticipant)
	}
	if price < 0 || price > l.budgets[p] {
		return fmt.Errorf("award %s to %s for %d with %d left: %w", item, p, price, l.budgets[p], ErrBudgetViolation)
	}
	if len(l.rosters[p]) >= l.maxSlots {
		return fmt.Errorf("award %s to %s with %d/%d slots: %w", item, p, len(l.rosters[p]), l.maxSlots, ErrCapacityViolation)
	}
	if owner, ok := l.awarded[itemKey(item)]; ok {
		return fmt.Errorf("award %s to %s, already owned by %s: %w", item, p, owner, ErrItemAlreadyAwarded)
	}
	return nil
}

// Award deducts price from p's budget and appends item to p's roster. It
// fails closed: nothing is changed unless every invariant still holds.
func (l *Ledger) Award(p, item string, price int) error {
	if err := l.check(p, item, price); err != nil {
		return err
	}
	l.budgets[p] -= price
	l.rosters[p] = append(l.rosters[p], RosterEntry{Item: item, Price: price})
	l.awarded[itemKey(item)] = p
	return nil
}

func (l *Ledger) views(minOpeningBid int) []ParticipantView {
	out := make([]ParticipantView, 0, len(l.participants))
	for _, p := range l.participants {
		roster := make([]RosterEntry, len(l.rosters[p]))
		copy(roster, l.rosters[p])
		out = append(out, ParticipantView{
			Name:      p,
			Icon:      l.icons[p],
			Budget:    l.budgets[p],
			Roster:    roster,
			SlotsUsed: len(roster),
			Eligible:  l.Eligible(p, minOpeningBid),
		})
	}
	return out
}

package game

import (
	"strings"
)

// Award is the outcome of closing an auction.
type Award struct {
	Item     string `json:"item"`
	Winner   string `json:"winner"`
	Price    int    `json:"price"`
	Finished bool   `json:"finished"`
}

func (s *Session) draft() (*draftPhase, error) {
	d, ok := s.phase.(*draftPhase)
	if !ok {
		return nil, ErrInvalidPhase
	}
	return d, nil
}

// Nominate puts item up for auction on behalf of the current nominator.
// An empty nominator means "whoever's turn it is".
func (s *Session) Nominate(nominator, item string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.draft()
	if err != nil {
		return Snapshot{}, err
	}
	if d.auction != nil {
		return Snapshot{}, ErrAuctionInProgress
	}
	current := d.nominator()
	if nominator = strings.TrimSpace(nominator); nominator != "" && nominator != current {
		if !d.ledger.has(nominator) {
			return Snapshot{}, ErrUnknownParticipant
		}
		return Snapshot{}, ErrNotYourTurn
	}
	if !d.ledger.Eligible(current, s.Rules.MinOpeningBid) {
		return Snapshot{}, ErrNominatorIneligible
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return Snapshot{}, ErrEmptyName
	}
	if s.catalog != nil {
		canonical, ok := s.catalog.Resolve(item)
		if !ok {
			return Snapshot{}, ErrUnknownItem
		}
		item = canonical
	}
	if d.ledger.IsAwarded(item) {
		return Snapshot{}, ErrItemAlreadyAwarded
	}

	opening := min(s.Rules.MinOpeningBid, d.ledger.Budget(current))
	d.auction = &Auction{Item: item, Nominator: current, CurrentBid: opening, CurrentBidder: current}
	s.commit("%s nominated %s with opening bid $%d.", current, item, opening)
	return s.snapshot(), nil
}

// Bid raises the open auction to amount on behalf of bidder. The leader may
// raise their own bid.
func (s *Session) Bid(bidder string, amount int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.phase.(*draftPhase)
	if !ok || d.auction == nil {
		return Snapshot{}, ErrNoActiveAuction
	}
	bidder = strings.TrimSpace(bidder)
	if !d.ledger.has(bidder) {
		return Snapshot{}, ErrUnknownParticipant
	}
	if d.ledger.SlotsUsed(bidder) >= s.Rules.MaxSlots {
		return Snapshot{}, ErrRosterFull
	}
	a := d.auction
	inc := s.Rules.RaiseIncrement
	if amount > d.ledger.Budget(bidder) {
		return Snapshot{}, ErrInsufficientFunds
	}
	if (amount-a.CurrentBid)%inc != 0 {
		return Snapshot{}, ErrBadIncrement
	}
	if amount < a.CurrentBid+inc {
		return Snapshot{}, ErrBelowMinimumRaise
	}

	a.CurrentBid = amount
	a.CurrentBidder = bidder
	a.Bids++
	s.commit("%s bids $%d on %s.", bidder, amount, a.Item)
	return s.snapshot(), nil
}

// Close awards the item under auction to the current leader and moves the
// turn on, finishing the draft when nobody can nominate anymore.
func (s *Session) Close() (Award, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.phase.(*draftPhase)
	if !ok || d.auction == nil {
		return Award{}, Snapshot{}, ErrNoActiveAuction
	}
	a := d.auction
	if err := d.ledger.Award(a.CurrentBidder, a.Item, a.CurrentBid); err != nil {
		return Award{}, Snapshot{}, err
	}
	d.auction = nil
	s.commit("%s goes to %s for $%d.", a.Item, a.CurrentBidder, a.CurrentBid)

	award := Award{Item: a.Item, Winner: a.CurrentBidder, Price: a.CurrentBid}
	if d.complete() || !d.advance(s.Rules.MinOpeningBid) {
		s.finish(d.turn, d.ledger)
		award.Finished = true
	}
	return award, s.snapshot(), nil
}

// Advance passes the turn to the next eligible participant. It is how the
// host skips a nominator who can no longer nominate.
func (s *Session) Advance() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.draft()
	if err != nil {
		return Snapshot{}, err
	}
	if d.auction != nil {
		return Snapshot{}, ErrAuctionInProgress
	}
	prev := d.nominator()
	if !d.advance(s.Rules.MinOpeningBid) {
		s.finish(d.turn, d.ledger)
		return s.snapshot(), nil
	}
	s.commit("%s passes, %s nominates next.", prev, d.nominator())
	return s.snapshot(), nil
}

// IsComplete reports whether every roster is at capacity.
func (s *Session) IsComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch p := s.phase.(type) {
	case *draftPhase:
		return p.complete()
	case *finishedPhase:
		return p.ledger.Full()
	}
	return false
}

package game

// phase is the per-status payload of a session. Only draftPhase can carry
// an open auction; a lobby has no ledger at all.
type phase interface {
	status() Status
}

type lobbyPhase struct {
	entrants []Entrant
}

type draftPhase struct {
	ledger  *Ledger
	turn    int
	auction *Auction
}

type finishedPhase struct {
	ledger *Ledger
	turn   int
}

func (*lobbyPhase) status() Status    { return StatusLobby }
func (*draftPhase) status() Status    { return StatusDraft }
func (*finishedPhase) status() Status { return StatusFinished }

func (l *lobbyPhase) has(name string) bool {
	for _, e := range l.entrants {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (d *draftPhase) nominator() string {
	return d.ledger.participants[d.turn]
}

// advance moves the turn to the next eligible participant after the current
// one, wrapping around and considering the current one last. It returns
// false when nobody can nominate anymore; the turn is left unchanged then.
func (d *draftPhase) advance(minOpeningBid int) bool {
	n := len(d.ledger.participants)
	for step := 1; step <= n; step++ {
		i := (d.turn + step) % n
		if d.ledger.Eligible(d.ledger.participants[i], minOpeningBid) {
			d.turn = i
			return true
		}
	}
	return false
}

// settle keeps the turn if the current nominator is eligible, otherwise
// advances.
func (d *draftPhase) settle(minOpeningBid int) bool {
	if d.ledger.Eligible(d.nominator(), minOpeningBid) {
		return true
	}
	return d.advance(minOpeningBid)
}

// complete reports whether every roster is full, regardless of budgets.
func (d *draftPhase) complete() bool {
	return d.ledger.Full()
}

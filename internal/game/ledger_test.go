package game

import (
	"errors"
	"testing"
)

func testLedger() *Ledger {
	return newLedger([]Entrant{{Name: "A"}, {Name: "B"}}, 100, 2)
}

func TestLedgerAward(t *testing.T) {
	l := testLedger()
	if err := l.Award("A", "Pikachu", 60); err != nil {
		t.Fatalf("award should succeed: %v", err)
	}
	if l.Budget("A") != 40 {
		t.Fatalf("expected budget 40, got %d", l.Budget("A"))
	}
	if l.SlotsUsed("A") != 1 {
		t.Fatalf("expected 1 slot used, got %d", l.SlotsUsed("A"))
	}
	if !l.IsAwarded("pikachu ") {
		t.Fatal("award lookup should ignore case and surrounding space")
	}
}

func TestLedgerAward_FailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		player string
		item   string
		price  int
		want   error
	}{
		{"unknown participant", "Z", "Eevee", 10, ErrUnknownParticipant},
		{"over budget", "A", "Eevee", 101, ErrBudgetViolation},
		{"negative price", "A", "Eevee", -1, ErrBudgetViolation},
		{"already owned", "B", "PIKACHU", 10, ErrItemAlreadyAwarded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := testLedger()
			if err := l.Award("A", "Pikachu", 0); err != nil {
				t.Fatalf("setup award failed: %v", err)
			}
			before := l.views(50)
			err := l.Award(tc.player, tc.item, tc.price)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			after := l.views(50)
			for i := range before {
				if before[i].Budget != after[i].Budget || before[i].SlotsUsed != after[i].SlotsUsed {
					t.Fatalf("rejected award changed %s", before[i].Name)
				}
			}
		})
	}
}

func TestLedgerAward_Capacity(t *testing.T) {
	l := testLedger()
	for _, item := range []string{"Bulbasaur", "Ivysaur"} {
		if err := l.Award("A", item, 10); err != nil {
			t.Fatalf("award %s: %v", item, err)
		}
	}
	err := l.Award("A", "Venusaur", 10)
	if !errors.Is(err, ErrCapacityViolation) {
		t.Fatalf("expected capacity violation, got %v", err)
	}
	if !IsFault(err) {
		t.Fatal("capacity violation should be a fault")
	}
	if l.Budget("A") != 80 {
		t.Fatalf("expected budget 80 after rejected award, got %d", l.Budget("A"))
	}
}

func TestLedgerEligible(t *testing.T) {
	l := testLedger()
	if !l.Eligible("A", 50) {
		t.Fatal("fresh participant should be eligible")
	}
	if l.Eligible("Z", 50) {
		t.Fatal("unknown participant should not be eligible")
	}
	_ = l.Award("A", "Mew", 60)
	if l.Eligible("A", 50) {
		t.Fatal("participant with 40 left should not afford a 50 opening")
	}
	_ = l.Award("B", "Onix", 0)
	_ = l.Award("B", "Geodude", 0)
	if l.Eligible("B", 50) {
		t.Fatal("participant with a full roster should not be eligible")
	}
	if l.Full() {
		t.Fatal("ledger should not be full while A has a free slot")
	}
	_ = l.Award("A", "Mewtwo", 0)
	if !l.Full() {
		t.Fatal("ledger should be full")
	}
}

func TestLedgerViews_DeepCopy(t *testing.T) {
	l := testLedger()
	_ = l.Award("A", "Snorlax", 10)
	v := l.views(50)
	v[0].Roster[0].Item = "changed"
	if l.rosters["A"][0].Item != "Snorlax" {
		t.Fatal("view roster should not alias ledger state")
	}
}

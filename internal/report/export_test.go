package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kiliankoe/auctiondraft/internal/game"
)

func finishedSnapshot() game.Snapshot {
	return game.Snapshot{
		Code:   "ABCDE",
		Status: game.StatusFinished,
		Rules:  game.Rules{StartingBudget: 1000, MaxSlots: 2},
		Participants: []game.ParticipantView{
			{Name: "Ash", Icon: "🔥", Budget: 900, Roster: []game.RosterEntry{{Item: "Pikachu", Price: 100}}},
			{Name: "Misty", Budget: 1000, Roster: []game.RosterEntry{}},
		},
		Log: []string{"Pikachu goes to Ash for $100."},
	}
}

func TestMoney(t *testing.T) {
	if got := Money(1000); got != "$1,000" {
		t.Fatalf("expected $1,000, got %s", got)
	}
	if got := Money(25); got != "$25" {
		t.Fatalf("expected $25, got %s", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, finishedSnapshot()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	wantHeader := "Player,RemainingBudget,Slot1_Item,Slot1_Price,Slot2_Item,Slot2_Price"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Fatalf("unexpected header %s", got)
	}
	if got := strings.Join(rows[1], ","); got != "Ash,900,Pikachu,100,," {
		t.Fatalf("unexpected row %s", got)
	}
	if got := strings.Join(rows[2], ","); got != "Misty,1000,,,," {
		t.Fatalf("unexpected row %s", got)
	}
}

func TestText(t *testing.T) {
	out := Text(finishedSnapshot(), time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC))
	for _, want := range []string{
		"Session ABCDE",
		"2024-05-01 18:30:00",
		"🔥 Ash: $900 left, $100 spent (1/2)",
		"  1. Pikachu - $100",
		"Misty: $1,000 left, $0 spent (0/2)",
		"(nothing drafted)",
		"- Pikachu goes to Ash for $100.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestAppendText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.txt")
	snap := finishedSnapshot()
	if err := AppendText(path, snap); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendText(path, snap); err != nil {
		t.Fatalf("second append: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if n := strings.Count(string(b), "Session ABCDE"); n != 2 {
		t.Fatalf("expected 2 summaries, got %d", n)
	}
}

func TestExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")

	(&Exporter{Enabled: false, File: path}).Finished(finishedSnapshot())
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("disabled exporter should not write")
	}

	var nilExporter *Exporter
	nilExporter.Finished(finishedSnapshot())

	(&Exporter{Enabled: true, File: path}).Finished(finishedSnapshot())
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("enabled exporter should write: %v", err)
	}
}

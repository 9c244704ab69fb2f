// Package report renders finished or in-progress drafts for people: a
// spreadsheet-friendly CSV and an appendable plain-text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/auctiondraft/internal/game"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount as "$1,000".
func Money(amount int) string {
	return printer.Sprintf("$%d", amount)
}

// WriteCSV writes one row per participant with a pair of columns per roster
// slot. Empty slots are left blank.
func WriteCSV(w io.Writer, snap game.Snapshot) error {
	cw := csv.NewWriter(w)
	header := []string{"Player", "RemainingBudget"}
	for i := 1; i <= snap.Rules.MaxSlots; i++ {
		header = append(header, fmt.Sprintf("Slot%d_Item", i), fmt.Sprintf("Slot%d_Price", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range snap.Participants {
		row := []string{p.Name, strconv.Itoa(p.Budget)}
		for i := 0; i < snap.Rules.MaxSlots; i++ {
			if i < len(p.Roster) {
				row = append(row, p.Roster[i].Item, strconv.Itoa(p.Roster[i].Price))
			} else {
				row = append(row, "", "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text renders a human-readable summary of snap.
func Text(snap game.Snapshot, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Auction Draft Results - Session %s\n", snap.Code))
	sb.WriteString(fmt.Sprintf("Status: %s, exported %s\n", snap.Status, now.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, p := range snap.Participants {
		spent := 0
		for _, r := range p.Roster {
			spent += r.Price
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s left, %s spent (%d/%d)\n",
			p.Icon, p.Name, Money(p.Budget), Money(spent), len(p.Roster), snap.Rules.MaxSlots))
		if len(p.Roster) == 0 {
			sb.WriteString("  (nothing drafted)\n")
		}
		for i, r := range p.Roster {
			sb.WriteString(fmt.Sprintf("  %d. %s - %s\n", i+1, r.Item, Money(r.Price)))
		}
	}

	if len(snap.Log) > 0 {
		sb.WriteString("\nRecent activity:\n")
		for _, entry := range snap.Log {
			sb.WriteString("- " + entry + "\n")
		}
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	return sb.String()
}

// AppendText appends the summary of snap to filename, creating the file and
// its directory as needed.
func AppendText(filename string, snap game.Snapshot) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n\n") // spacing between sessions
	}
	sb.WriteString(Text(snap, time.Now()))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

package game

import (
	"errors"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRules    = errors.New("starting budget and max slots must be positive")
	ErrInvalidPhase    = errors.New("invalid phase for action")

	ErrEmptyDisplayName    = errors.New("display name is empty")
	ErrDuplicateName       = errors.New("display name already taken")
	ErrDraftStarted        = errors.New("draft already started, joined as viewer")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start")

	ErrNotYourTurn         = errors.New("not your turn to nominate")
	ErrNominatorIneligible = errors.New("nominator cannot nominate")
	ErrAuctionInProgress   = errors.New("an auction is already open")

	ErrEmptyName          = errors.New("item name is empty")
	ErrUnknownItem        = errors.New("item is not in the catalog")
	ErrItemAlreadyAwarded = errors.New("item already drafted")

	ErrNoActiveAuction    = errors.New("no active auction")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrRosterFull         = errors.New("roster is full")
	ErrBelowMinimumRaise  = errors.New("bid below minimum raise")
	ErrBadIncrement       = errors.New("bid not on a raise increment")
	ErrInsufficientFunds  = errors.New("insufficient funds")

	// Internal-consistency faults. Seeing one means a caller skipped validation.
	ErrBudgetViolation   = errors.New("award exceeds remaining budget")
	ErrCapacityViolation = errors.New("award exceeds roster capacity")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrSessionNotFound, "session_not_found"},
	{ErrInvalidRules, "invalid_rules"},
	{ErrInvalidPhase, "invalid_phase"},
	{ErrEmptyDisplayName, "empty_display_name"},
	{ErrDuplicateName, "duplicate_name"},
	{ErrDraftStarted, "draft_started"},
	{ErrInsufficientPlayers, "insufficient_players"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrNominatorIneligible, "nominator_ineligible"},
	{ErrAuctionInProgress, "auction_in_progress"},
	{ErrEmptyName, "empty_name"},
	{ErrUnknownItem, "unknown_item"},
	{ErrItemAlreadyAwarded, "item_already_awarded"},
	{ErrNoActiveAuction, "no_active_auction"},
	{ErrUnknownParticipant, "unknown_participant"},
	{ErrRosterFull, "roster_full"},
	{ErrBelowMinimumRaise, "below_minimum_raise"},
	{ErrBadIncrement, "bad_increment"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrBudgetViolation, "budget_violation"},
	{ErrCapacityViolation, "capacity_violation"},
}

// Code returns a stable machine-readable code for err, "internal" if unknown.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

// IsFault reports whether err signals a broken ledger invariant rather than
// a user mistake.
func IsFault(err error) bool {
	return errors.Is(err, ErrBudgetViolation) || errors.Is(err, ErrCapacityViolation)
}

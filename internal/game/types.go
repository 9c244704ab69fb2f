package game

import (
	"time"
)

type Status string

const (
	StatusLobby    Status = "Lobby"
	StatusDraft    Status = "Draft"
	StatusFinished Status = "Finished"
)

const (
	DefaultStartingBudget = 1000
	DefaultMaxSlots       = 6
	DefaultMinOpeningBid  = 50
	DefaultRaiseIncrement = 25
	DefaultLogTail        = 15
)

// Rules are fixed for the lifetime of a session.
type Rules struct {
	StartingBudget int `json:"startingBudget"`
	MaxSlots       int `json:"maxSlots"`
	MinOpeningBid  int `json:"minOpeningBid"`
	RaiseIncrement int `json:"raiseIncrement"`
	LogTail        int `json:"logTail"`
}

// DefaultRules returns the rules of a standard six-slot draft.
func DefaultRules() Rules {
	return Rules{
		StartingBudget: DefaultStartingBudget,
		MaxSlots:       DefaultMaxSlots,
		MinOpeningBid:  DefaultMinOpeningBid,
		RaiseIncrement: DefaultRaiseIncrement,
		LogTail:        DefaultLogTail,
	}
}

func (r Rules) validate() error {
	if r.StartingBudget <= 0 || r.MaxSlots <= 0 || r.MinOpeningBid <= 0 || r.RaiseIncrement <= 0 || r.LogTail < 0 {
		return ErrInvalidRules
	}
	return nil
}

type Entrant struct {
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	JoinedAt time.Time `json:"joinedAt"`
}

type RosterEntry struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

// Auction is the single item currently under bidding.
type Auction struct {
	Item          string `json:"item"`
	Nominator     string `json:"nominator"`
	CurrentBid    int    `json:"currentBid"`
	CurrentBidder string `json:"currentBidder"`
	Bids          int    `json:"bids"`
}

type ParticipantView struct {
	Name      string        `json:"name"`
	Icon      string        `json:"icon"`
	Budget    int           `json:"budget"`
	Roster    []RosterEntry `json:"roster"`
	SlotsUsed int           `json:"slotsUsed"`
	Eligible  bool          `json:"eligible"`
}

type AuctionView struct {
	Auction
	MinNextBid int `json:"minNextBid"`
}

// Snapshot is a deep copy of a session, safe to hand to any reader.
type Snapshot struct {
	Code         string            `json:"sessionCode"`
	Status       Status            `json:"status"`
	Version      uint64            `json:"version"`
	Rules        Rules             `json:"rules"`
	CreatedAt    time.Time         `json:"createdAt"`
	Lobby        []Entrant         `json:"lobby,omitempty"`
	Participants []ParticipantView `json:"participants"`
	TurnIndex    int               `json:"turnIndex"`
	Nominator    string            `json:"nominator,omitempty"`
	Auction      *AuctionView      `json:"auction,omitempty"`
	FreeText     bool              `json:"freeText"`
	Log          []string          `json:"log"`
}

// Participant returns the view for name, or nil.
func (s Snapshot) Participant(name string) *ParticipantView {
	for i := range s.Participants {
		if s.Participants[i].Name == name {
			return &s.Participants[i]
		}
	}
	return nil
}

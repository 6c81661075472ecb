package game

import (
	"fmt"
	"unicode/utf8"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type Round string

const (
	RoundNotStarted Round = "not_started"
	RoundPreFlop    Round = "preflop"
	RoundFlop       Round = "flop"
	RoundTurn       Round = "turn"
	RoundRiver      Round = "river"
	RoundShowdown   Round = "showdown"
)

// next returns the following betting round; Showdown is terminal.
func (r Round) next() Round {
	switch r {
	case RoundPreFlop:
		return RoundFlop
	case RoundFlop:
		return RoundTurn
	case RoundTurn:
		return RoundRiver
	case RoundRiver:
		return RoundShowdown
	default:
		return r
	}
}

// revealed is the number of community cards visible in this round.
func (r Round) revealed() int {
	switch r {
	case RoundFlop:
		return 3
	case RoundTurn:
		return 4
	case RoundRiver, RoundShowdown:
		return 5
	default:
		return 0
	}
}

const (
	MinSeats          = 2
	MaxSeats          = 9
	MaxTableIDLength  = 32
	MinBuyInBigBlinds = 10
)

// Seat is the per-(player, table) state. Seats of players who left stay on
// the table with zero chips and IsActive false until the player joins again.
type Seat struct {
	Player     string  `json:"player"`
	Chips      uint64  `json:"chips"`
	IsActive   bool    `json:"isActive"`
	IsFolded   bool    `json:"isFolded"`
	IsAllIn    bool    `json:"isAllIn"`
	CurrentBet uint64  `json:"currentBet"`
	HasActed   bool    `json:"hasActed"`
	HoleCards  [2]Card `json:"-"`
}

type Table struct {
	ID                 string
	Host               string
	BuyIn              uint64
	SmallBlind         uint64
	BigBlind           uint64
	MaxPlayers         int
	IsPrivate          bool
	Status             Status
	Round              Round
	Players            []string // len == MaxPlayers, "" marks an empty slot
	PlayerCount        int
	CurrentPlayerIndex int
	DealerIndex        int
	Pot                uint64
	HighestBet         uint64
	CommunityCards     [5]Card
	HandNo             uint64
	Seats              map[string]*Seat
}

type CreateParams struct {
	ID         string
	BuyIn      uint64
	SmallBlind uint64
	BigBlind   uint64
	MaxPlayers int
	IsPrivate  bool
}

func (p CreateParams) Validate() error {
	if p.MaxPlayers < MinSeats || p.MaxPlayers > MaxSeats {
		return appErr.ErrInvalidPlayerCount
	}
	if p.BigBlind < p.SmallBlind {
		return appErr.ErrInvalidBlinds
	}
	minBuyIn, err := mulChips(p.BigBlind, MinBuyInBigBlinds)
	if err != nil || p.BuyIn < minBuyIn {
		return fmt.Errorf("%w: buy-in %d, big blind %d", appErr.ErrBuyInTooSmall, p.BuyIn, p.BigBlind)
	}
	if p.ID == "" {
		return appErr.ErrInvalidTableID
	}
	if utf8.RuneCountInString(p.ID) > MaxTableIDLength {
		return appErr.ErrTableIDTooLong
	}
	return nil
}

// Clone returns a deep copy so a transition can be attempted without
// touching the committed state.
func (t *Table) Clone() *Table {
	out := *t
	out.Players = append([]string(nil), t.Players...)
	out.Seats = make(map[string]*Seat, len(t.Seats))
	for id, seat := range t.Seats {
		s := *seat
		out.Seats[id] = &s
	}
	return &out
}

// SeatAt returns the occupant of slot i, or nil for an empty slot.
func (t *Table) SeatAt(i int) *Seat {
	if i < 0 || i >= len(t.Players) || t.Players[i] == "" {
		return nil
	}
	return t.Seats[t.Players[i]]
}

func (t *Table) IndexOf(player string) int {
	if player == "" {
		return -1
	}
	for i, p := range t.Players {
		if p == player {
			return i
		}
	}
	return -1
}

func (t *Table) occupiedSeats() []int {
	out := make([]int, 0, t.PlayerCount)
	for i, p := range t.Players {
		if p != "" {
			out = append(out, i)
		}
	}
	return out
}

// TotalChips is pot plus every seat balance, the quantity that only
// create, join and leave may change.
func (t *Table) TotalChips() (uint64, error) {
	total := t.Pot
	for _, seat := range t.Seats {
		var err error
		if total, err = addChips(total, seat.Chips); err != nil {
			return 0, err
		}
	}
	return total, nil
}

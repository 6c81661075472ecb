package game

import (
	"fmt"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

type ActionKind string

const (
	ActionBet   ActionKind = "bet"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionFold  ActionKind = "fold"
)

type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount uint64     `json:"amount,omitempty"`
}

// Outcome describes what a betting action did beyond the seat itself.
type Outcome struct {
	Paid           uint64 `json:"paid"`
	AllIn          bool   `json:"allIn"`
	RoundsAdvanced int    `json:"roundsAdvanced"`
	Finished       bool   `json:"finished"`
	Winner         int    `json:"winner"`
	Awarded        uint64 `json:"awarded"`
}

// Apply dispatches a betting action.
func (t *Table) Apply(player string, action Action) (Outcome, error) {
	switch action.Kind {
	case ActionBet:
		return t.Bet(player, action.Amount)
	case ActionCheck:
		return t.Check(player)
	case ActionCall:
		return t.Call(player)
	case ActionFold:
		return t.Fold(player)
	default:
		return Outcome{}, fmt.Errorf("unsupported action %q", action.Kind)
	}
}

func (t *Table) actingSeat(player string) (*Seat, error) {
	if t.Status != StatusPlaying {
		return nil, appErr.ErrGameNotInProgress
	}
	if t.Round == RoundShowdown {
		return nil, appErr.ErrBettingClosed
	}
	idx := t.IndexOf(player)
	if idx < 0 {
		return nil, appErr.ErrPlayerNotAtTable
	}
	seat := t.Seats[player]
	if seat.IsFolded {
		return nil, appErr.ErrPlayerFolded
	}
	if !seat.IsActive {
		return nil, appErr.ErrPlayerNotActive
	}
	if idx != t.CurrentPlayerIndex {
		return nil, appErr.ErrNotPlayerTurn
	}
	if seat.IsAllIn {
		return nil, appErr.ErrPlayerAllIn
	}
	return seat, nil
}

// Bet sets the seat's total commitment for the round to amount. Matching the
// highest bet is a call; going above it must raise by at least a big blind.
func (t *Table) Bet(player string, amount uint64) (Outcome, error) {
	seat, err := t.actingSeat(player)
	if err != nil {
		return Outcome{}, err
	}
	if amount < seat.CurrentBet {
		return Outcome{}, fmt.Errorf("%w: %d is below the %d already committed", appErr.ErrBetTooSmall, amount, seat.CurrentBet)
	}
	delta := amount - seat.CurrentBet
	if seat.Chips < delta {
		return Outcome{}, fmt.Errorf("%w: need %d, have %d", appErr.ErrInsufficientChips, delta, seat.Chips)
	}
	switch {
	case amount > t.HighestBet:
		minRaise, err := addChips(t.HighestBet, t.BigBlind)
		if err != nil {
			return Outcome{}, err
		}
		if amount < minRaise {
			return Outcome{}, fmt.Errorf("%w: minimum raise is to %d", appErr.ErrBetTooSmall, minRaise)
		}
	case amount < t.HighestBet:
		return Outcome{}, fmt.Errorf("%w: must match %d", appErr.ErrBetTooSmall, t.HighestBet)
	}

	chips, err := subChips(seat.Chips, delta)
	if err != nil {
		return Outcome{}, err
	}
	pot, err := addChips(t.Pot, delta)
	if err != nil {
		return Outcome{}, err
	}

	seat.Chips = chips
	seat.CurrentBet = amount
	seat.HasActed = true
	t.Pot = pot
	if amount > t.HighestBet {
		t.HighestBet = amount
	}
	out := t.endTurn()
	out.Paid = delta
	return out, nil
}

func (t *Table) Check(player string) (Outcome, error) {
	seat, err := t.actingSeat(player)
	if err != nil {
		return Outcome{}, err
	}
	if t.HighestBet != 0 && seat.CurrentBet != t.HighestBet {
		return Outcome{}, fmt.Errorf("%w: %d outstanding", appErr.ErrCannotCheck, t.HighestBet-seat.CurrentBet)
	}
	seat.HasActed = true
	return t.endTurn(), nil
}

// Call matches the highest bet, or commits every remaining chip and goes
// all-in when the seat is short.
func (t *Table) Call(player string) (Outcome, error) {
	seat, err := t.actingSeat(player)
	if err != nil {
		return Outcome{}, err
	}
	needed, err := subChips(t.HighestBet, seat.CurrentBet)
	if err != nil {
		return Outcome{}, err
	}
	paid := min(needed, seat.Chips)

	chips, err := subChips(seat.Chips, paid)
	if err != nil {
		return Outcome{}, err
	}
	bet, err := addChips(seat.CurrentBet, paid)
	if err != nil {
		return Outcome{}, err
	}
	pot, err := addChips(t.Pot, paid)
	if err != nil {
		return Outcome{}, err
	}

	seat.Chips = chips
	seat.CurrentBet = bet
	seat.HasActed = true
	t.Pot = pot
	allIn := paid < needed
	if allIn {
		seat.IsAllIn = true
	}
	out := t.endTurn()
	out.Paid = paid
	out.AllIn = allIn
	return out, nil
}

// Fold gives up the hand. When a single contender remains it takes the
// whole pot at once and the hand ends without a showdown.
func (t *Table) Fold(player string) (Outcome, error) {
	seat, err := t.actingSeat(player)
	if err != nil {
		return Outcome{}, err
	}

	winner, contenders := -1, 0
	for i := range t.Players {
		s := t.SeatAt(i)
		if s == nil || s == seat || !s.IsActive || s.IsFolded {
			continue
		}
		contenders++
		winner = i
	}

	if contenders != 1 {
		seat.IsFolded = true
		seat.HasActed = true
		return t.endTurn(), nil
	}

	ws := t.SeatAt(winner)
	chips, err := addChips(ws.Chips, t.Pot)
	if err != nil {
		return Outcome{}, err
	}
	awarded := t.Pot

	seat.IsFolded = true
	seat.HasActed = true
	ws.Chips = chips
	t.Pot = 0
	t.Status = StatusFinished
	return Outcome{Finished: true, Winner: winner, Awarded: awarded}, nil
}

// roundComplete holds once every seat that can still act has acted this
// round and matched the highest bet.
func (t *Table) roundComplete() bool {
	for i := range t.Players {
		if !t.canAct(i) {
			continue
		}
		seat := t.SeatAt(i)
		if !seat.HasActed || seat.CurrentBet != t.HighestBet {
			return false
		}
	}
	return true
}

func (t *Table) completeRound() {
	for _, idx := range t.occupiedSeats() {
		seat := t.SeatAt(idx)
		seat.CurrentBet = 0
		seat.HasActed = false
	}
	t.HighestBet = 0
	t.Round = t.Round.next()
	t.CurrentPlayerIndex = t.firstAfterDealer()
}

func (t *Table) endTurn() Outcome {
	out := Outcome{Winner: -1}
	t.Advance()
	if !t.roundComplete() {
		return out
	}
	t.completeRound()
	out.RoundsAdvanced = 1
	// At most one seat can still bet and it has nobody to bet against: the
	// remaining board is already dealt, run it out.
	for t.Round != RoundShowdown && t.actorsRemaining() <= 1 {
		t.completeRound()
		out.RoundsAdvanced++
	}
	return out
}

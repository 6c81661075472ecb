package game

import (
	"fmt"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

// HandStrength orders evaluated hands; higher wins and equal values tie.
type HandStrength int32

type HandEvaluator interface {
	Evaluate(cards [7]Card) (HandStrength, error)
}

type Settlement struct {
	Winners   []int          `json:"winners"`
	Strength  HandStrength   `json:"strength"`
	Share     uint64         `json:"share"`
	Remainder uint64         `json:"remainder"`
	Awards    map[int]uint64 `json:"awards"`
}

// HandCards is the seven-card hand of the seat at idx: the community cards
// followed by the two hole cards.
func (t *Table) HandCards(idx int) ([7]Card, bool) {
	seat := t.SeatAt(idx)
	if seat == nil {
		return [7]Card{}, false
	}
	var cards [7]Card
	copy(cards[:5], t.CommunityCards[:])
	cards[5], cards[6] = seat.HoleCards[0], seat.HoleCards[1]
	return cards, true
}

// Showdown evaluates every remaining hand and pays out the pot. Tied
// winners split it evenly; the odd chips go to the lowest seat index.
func (t *Table) Showdown(caller string, eval HandEvaluator) (Settlement, error) {
	if t.Status != StatusPlaying {
		return Settlement{}, appErr.ErrGameNotInProgress
	}
	if t.Round != RoundShowdown {
		return Settlement{}, appErr.ErrNotShowdownRound
	}
	if caller != t.Host {
		return Settlement{}, appErr.ErrNotTableHost
	}

	var best HandStrength
	var winners []int
	for i := range t.Players {
		seat := t.SeatAt(i)
		if seat == nil || !seat.IsActive || seat.IsFolded {
			continue
		}
		cards, _ := t.HandCards(i)
		strength, err := eval.Evaluate(cards)
		if err != nil {
			return Settlement{}, fmt.Errorf("evaluate seat %d: %w", i, err)
		}
		switch {
		case len(winners) == 0 || strength > best:
			best = strength
			winners = []int{i}
		case strength == best:
			winners = append(winners, i)
		}
	}
	if len(winners) == 0 {
		return Settlement{}, appErr.ErrNoWinners
	}

	n := uint64(len(winners))
	share := t.Pot / n
	remainder := t.Pot % n

	awards := make(map[int]uint64, len(winners))
	balances := make([]uint64, len(winners))
	for k, idx := range winners {
		award := share
		if k == 0 {
			award += remainder
		}
		balance, err := addChips(t.SeatAt(idx).Chips, award)
		if err != nil {
			return Settlement{}, err
		}
		awards[idx] = award
		balances[k] = balance
	}

	for k, idx := range winners {
		t.SeatAt(idx).Chips = balances[k]
	}
	t.Pot = 0
	t.Status = StatusFinished
	return Settlement{
		Winners:   winners,
		Strength:  best,
		Share:     share,
		Remainder: remainder,
		Awards:    awards,
	}, nil
}

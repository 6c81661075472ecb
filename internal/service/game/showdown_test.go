package game_test

import (
	"errors"
	"testing"

	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

type flatEvaluator struct{}

func (flatEvaluator) Evaluate([7]game.Card) (game.HandStrength, error) { return 7, nil }

// holeEvaluator ranks a hand by its first hole card.
type holeEvaluator map[game.Card]game.HandStrength

func (m holeEvaluator) Evaluate(cards [7]game.Card) (game.HandStrength, error) {
	return m[cards[5]], nil
}

func cards(t *testing.T, codes ...string) []game.Card {
	t.Helper()
	out := make([]game.Card, len(codes))
	for i, s := range codes {
		c, err := game.ParseCard(s)
		if err != nil {
			t.Fatalf("parse card failed: %v", err)
		}
		out[i] = c
	}
	return out
}

func seven(t *testing.T, codes ...string) [7]game.Card {
	t.Helper()
	var hand [7]game.Card
	copy(hand[:], cards(t, codes...))
	return hand
}

func TestShowdownSplitsWithRemainderToFirstWinner(t *testing.T) {
	tbl := manualTable(game.RoundShowdown, 10,
		&game.Seat{Player: "a", Chips: 10},
		&game.Seat{Player: "b", Chips: 10, IsFolded: true},
		&game.Seat{Player: "c", Chips: 10},
		&game.Seat{Player: "d", Chips: 10},
	)
	tbl.Pot = 100

	res, err := tbl.Showdown("a", flatEvaluator{})
	if err != nil {
		t.Fatalf("showdown failed: %v", err)
	}
	if len(res.Winners) != 3 || res.Winners[0] != 0 || res.Winners[1] != 2 || res.Winners[2] != 3 {
		t.Fatalf("unexpected winners %v", res.Winners)
	}
	want := map[string]uint64{"a": 44, "b": 10, "c": 43, "d": 43}
	for p, chips := range want {
		if got := tbl.Seats[p].Chips; got != chips {
			t.Fatalf("seat %s chips %d, want %d", p, got, chips)
		}
	}
	if res.Share != 33 || res.Remainder != 1 || res.Awards[0] != 34 {
		t.Fatalf("unexpected settlement %+v", res)
	}
	if tbl.Pot != 0 || tbl.Status != game.StatusFinished {
		t.Fatalf("expected finished with empty pot, got %s pot %d", tbl.Status, tbl.Pot)
	}
}

func TestShowdownPicksStrongestHand(t *testing.T) {
	tbl := manualTable(game.RoundShowdown, 10,
		&game.Seat{Player: "a", Chips: 0, HoleCards: [2]game.Card{1, 2}},
		&game.Seat{Player: "b", Chips: 0, HoleCards: [2]game.Card{3, 4}, IsAllIn: true},
		&game.Seat{Player: "c", Chips: 0, HoleCards: [2]game.Card{5, 6}},
	)
	tbl.Pot = 90

	res, err := tbl.Showdown("a", holeEvaluator{1: 10, 3: 30, 5: 20})
	if err != nil {
		t.Fatalf("showdown failed: %v", err)
	}
	if len(res.Winners) != 1 || res.Winners[0] != 1 || tbl.Seats["b"].Chips != 90 {
		t.Fatalf("all-in seat with best hand should win, got %+v", res)
	}
}

func TestShowdownPreconditions(t *testing.T) {
	tbl := manualTable(game.RoundRiver, 10,
		&game.Seat{Player: "a", Chips: 10},
		&game.Seat{Player: "b", Chips: 10},
	)
	if _, err := tbl.Showdown("a", flatEvaluator{}); !errors.Is(err, appErr.ErrNotShowdownRound) {
		t.Fatalf("expected not showdown round, got: %v", err)
	}

	tbl.Round = game.RoundShowdown
	if _, err := tbl.Showdown("b", flatEvaluator{}); !errors.Is(err, appErr.ErrNotTableHost) {
		t.Fatalf("expected not host, got: %v", err)
	}

	tbl.Status = game.StatusFinished
	if _, err := tbl.Showdown("a", flatEvaluator{}); !errors.Is(err, appErr.ErrGameNotInProgress) {
		t.Fatalf("expected settled table to be rejected, got: %v", err)
	}
}

func TestShowdownWithoutContendersIsIntegrityFailure(t *testing.T) {
	tbl := manualTable(game.RoundShowdown, 10,
		&game.Seat{Player: "a", Chips: 10, IsFolded: true},
		&game.Seat{Player: "b", Chips: 10, IsFolded: true},
	)
	tbl.Pot = 20

	_, err := tbl.Showdown("a", flatEvaluator{})
	if !errors.Is(err, appErr.ErrNoWinners) || !appErr.IsIntegrity(err) {
		t.Fatalf("expected no winners integrity error, got: %v", err)
	}
	if tbl.Pot != 20 || tbl.Status != game.StatusPlaying {
		t.Fatalf("failed showdown mutated the table")
	}
}

func TestStandardEvaluatorOrdering(t *testing.T) {
	var eval game.StandardEvaluator

	royal, err := eval.Evaluate(seven(t, "Ah", "Kh", "Qh", "2c", "3d", "Jh", "Th"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	trips, err := eval.Evaluate(seven(t, "Ah", "Kh", "Qh", "2c", "3d", "2s", "2d"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	pair, err := eval.Evaluate(seven(t, "Ah", "Kh", "Qh", "2c", "3d", "9s", "9d"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !(royal > trips && trips > pair) {
		t.Fatalf("expected royal > trips > pair, got %d %d %d", royal, trips, pair)
	}

	left, _ := eval.Evaluate(seven(t, "Ah", "Kd", "Qc", "Js", "Th", "2c", "3d"))
	right, _ := eval.Evaluate(seven(t, "Ah", "Kd", "Qc", "Js", "Th", "4c", "5d"))
	if left != right {
		t.Fatalf("board straight should tie, got %d vs %d", left, right)
	}

	if _, err := eval.Evaluate([7]game.Card{0, 1, 2, 3, 4, 5, 60}); err == nil {
		t.Fatalf("expected invalid card error")
	}
}

func TestDescribeHand(t *testing.T) {
	desc, err := game.DescribeHand(cards(t, "Ah", "Kh", "Qh", "2c", "3d", "Jh", "Th"))
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if desc == "" {
		t.Fatalf("expected a description")
	}
}

func TestFullHandToShowdown(t *testing.T) {
	tbl, ledger := startedTable(t, "a", "b")
	before := totalChips(t, tbl)

	mustAct(t, tbl, "b", call)
	mustAct(t, tbl, "a", check)
	for tbl.Round != game.RoundShowdown {
		current := tbl.Players[tbl.CurrentPlayerIndex]
		mustAct(t, tbl, current, check)
	}

	res, err := tbl.Showdown("a", game.StandardEvaluator{})
	if err != nil {
		t.Fatalf("showdown failed: %v", err)
	}
	if len(res.Winners) == 0 {
		t.Fatalf("expected a winner")
	}
	if after := totalChips(t, tbl); after != before {
		t.Fatalf("chips not conserved: %d -> %d", before, after)
	}
	if got := ledger.VaultBalance(game.VaultID(tbl.ID)); got != before {
		t.Fatalf("vault %d != table chips %d", got, before)
	}
}

package game

import (
	"fmt"

	"github.com/paulhankin/poker"
)

// StandardEvaluator ranks seven-card hold'em hands with the paulhankin
// lookup tables.
type StandardEvaluator struct{}

func (StandardEvaluator) Evaluate(cards [7]Card) (HandStrength, error) {
	var hand [7]poker.Card
	for i, c := range cards {
		pc, err := toPokerCard(c)
		if err != nil {
			return 0, err
		}
		hand[i] = pc
	}
	return HandStrength(poker.Eval7(&hand)), nil
}

// DescribeHand names the best five-card hand in cards, e.g. "ace-high flush".
func DescribeHand(cards []Card) (string, error) {
	hand := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toPokerCard(c)
		if err != nil {
			return "", err
		}
		hand[i] = pc
	}
	return poker.Describe(hand)
}

func toPokerCard(c Card) (poker.Card, error) {
	var none poker.Card
	if !c.Valid() {
		return none, fmt.Errorf("invalid card code %d", uint8(c))
	}
	// poker ranks run 1 (ace) to 13 (king).
	rank := poker.Rank(c.Rank() + 2)
	if c.Rank() == RankAce {
		rank = 1
	}
	card, err := poker.MakeCard(poker.Suit(c.Suit()), rank)
	if err != nil {
		return none, fmt.Errorf("invalid card %s: %w", c, err)
	}
	return card, nil
}

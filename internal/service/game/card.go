package game

import "fmt"

// Card is a deck code in [0, 52): suit*13 + rank, with rank 0 = Two and
// rank 12 = Ace, suits ordered clubs, diamonds, hearts, spades.
type Card uint8

const DeckSize = 52

const (
	SuitClubs = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

const (
	RankTwo = iota
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

const (
	rankSymbols = "23456789TJQKA"
	suitSymbols = "cdhs"
)

func NewCard(rank, suit int) Card {
	return Card(suit*13 + rank)
}

func (c Card) Rank() int { return int(c) % 13 }

func (c Card) Suit() int { return int(c) / 13 }

func (c Card) Valid() bool { return c < DeckSize }

func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Card(%d)", uint8(c))
	}
	return string([]byte{rankSymbols[c.Rank()], suitSymbols[c.Suit()]})
}

// ParseCard accepts the two-character form produced by String, e.g. "As".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}
	rank, suit := -1, -1
	for i := 0; i < len(rankSymbols); i++ {
		if rankSymbols[i] == s[0] {
			rank = i
		}
	}
	for i := 0; i < len(suitSymbols); i++ {
		if suitSymbols[i] == s[1] {
			suit = i
		}
	}
	if rank < 0 || suit < 0 {
		return 0, fmt.Errorf("invalid card %q", s)
	}
	return NewCard(rank, suit), nil
}

package game

import "math"

// LCG constants are part of the deck contract: every implementation must
// produce the same permutation for the same seed.
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// Shuffle returns the deterministic permutation of the 52 card codes for seed.
// Fisher-Yates from index 51 down to 1; each step advances a wrapping 64-bit
// LCG, reduces the state modulo MaxUint64 and picks j = state mod (i+1).
func Shuffle(seed uint64) [DeckSize]Card {
	var deck [DeckSize]Card
	for i := range deck {
		deck[i] = Card(i)
	}

	state := seed
	for i := DeckSize - 1; i > 0; i-- {
		state = (state*lcgMultiplier + lcgIncrement) % math.MaxUint64
		j := state % uint64(i+1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Deal splits a shuffled deck into hole cards for each seat index in seats
// (two each, in the given order) followed by five community cards.
func Deal(deck [DeckSize]Card, seats []int) (map[int][2]Card, [5]Card) {
	hole := make(map[int][2]Card, len(seats))
	pos := 0
	for _, idx := range seats {
		hole[idx] = [2]Card{deck[pos], deck[pos+1]}
		pos += 2
	}
	var community [5]Card
	copy(community[:], deck[pos:pos+5])
	return hole, community
}

package game

func (t *Table) occupied(i int) bool {
	return t.Players[i] != ""
}

// canAct reports whether the occupant of slot i can still take a betting
// action this hand.
func (t *Table) canAct(i int) bool {
	seat := t.SeatAt(i)
	return seat != nil && seat.IsActive && !seat.IsFolded && !seat.IsAllIn
}

// nextSeat scans forward from `from` over the fixed seat array and returns
// the first slot accepted by filter. The scan visits `from` itself last, so
// a lone candidate is found again after a full revolution.
func (t *Table) nextSeat(from int, filter func(int) bool) (int, bool) {
	n := len(t.Players)
	if n == 0 {
		return from, false
	}
	for step := 1; step <= n; step++ {
		idx := (from + step) % n
		if filter(idx) {
			return idx, true
		}
	}
	return from, false
}

// Advance moves the turn pointer to the next seat that can still act,
// skipping empty, folded, inactive and all-in seats. With no candidate the
// pointer is left unchanged.
func (t *Table) Advance() {
	if idx, ok := t.nextSeat(t.CurrentPlayerIndex, t.canAct); ok {
		t.CurrentPlayerIndex = idx
	}
}

func (t *Table) actorsRemaining() int {
	n := 0
	for i := range t.Players {
		if t.canAct(i) {
			n++
		}
	}
	return n
}

// firstAfterDealer is the opening seat of a betting round. It falls back to
// plain occupancy when nobody can act so the pointer never rests on an
// empty slot.
func (t *Table) firstAfterDealer() int {
	if idx, ok := t.nextSeat(t.DealerIndex, t.canAct); ok {
		return idx
	}
	idx, _ := t.nextSeat(t.DealerIndex, t.occupied)
	return idx
}

package game

// SeatView is one slot of a TableView. Hole cards are only filled for the
// viewer's own seat, or for every live seat once the hand is settled.
type SeatView struct {
	Index      int      `json:"index"`
	Player     string   `json:"player"`
	Chips      uint64   `json:"chips"`
	CurrentBet uint64   `json:"currentBet"`
	IsFolded   bool     `json:"isFolded"`
	IsAllIn    bool     `json:"isAllIn"`
	HoleCards  []string `json:"holeCards,omitempty"`
}

type TableView struct {
	ID                 string     `json:"id"`
	Host               string     `json:"host"`
	BuyIn              uint64     `json:"buyIn"`
	SmallBlind         uint64     `json:"smallBlind"`
	BigBlind           uint64     `json:"bigBlind"`
	MaxPlayers         int        `json:"maxPlayers"`
	IsPrivate          bool       `json:"isPrivate"`
	Status             Status     `json:"status"`
	Round              Round      `json:"round"`
	HandNo             uint64     `json:"handNo"`
	PlayerCount        int        `json:"playerCount"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	DealerIndex        int        `json:"dealerIndex"`
	Pot                uint64     `json:"pot"`
	HighestBet         uint64     `json:"highestBet"`
	CommunityCards     []string   `json:"communityCards"`
	Seats              []SeatView `json:"seats"`
}

// View renders the table as seen by viewer (empty for a spectator).
func (t *Table) View(viewer string) TableView {
	v := TableView{
		ID:                 t.ID,
		Host:               t.Host,
		BuyIn:              t.BuyIn,
		SmallBlind:         t.SmallBlind,
		BigBlind:           t.BigBlind,
		MaxPlayers:         t.MaxPlayers,
		IsPrivate:          t.IsPrivate,
		Status:             t.Status,
		Round:              t.Round,
		HandNo:             t.HandNo,
		PlayerCount:        t.PlayerCount,
		CurrentPlayerIndex: t.CurrentPlayerIndex,
		DealerIndex:        t.DealerIndex,
		Pot:                t.Pot,
		HighestBet:         t.HighestBet,
		CommunityCards:     []string{},
		Seats:              make([]SeatView, 0, t.PlayerCount),
	}

	shown := t.Round.revealed()
	if t.Status == StatusWaiting {
		shown = 0
	}
	for _, c := range t.CommunityCards[:shown] {
		v.CommunityCards = append(v.CommunityCards, c.String())
	}

	dealt := t.HandNo > 0 && t.Status != StatusWaiting
	for i := range t.Players {
		seat := t.SeatAt(i)
		if seat == nil {
			continue
		}
		sv := SeatView{
			Index:      i,
			Player:     seat.Player,
			Chips:      seat.Chips,
			CurrentBet: seat.CurrentBet,
			IsFolded:   seat.IsFolded,
			IsAllIn:    seat.IsAllIn,
		}
		reveal := seat.Player == viewer ||
			(t.Status == StatusFinished && t.Round == RoundShowdown && !seat.IsFolded)
		if dealt && reveal {
			sv.HoleCards = []string{seat.HoleCards[0].String(), seat.HoleCards[1].String()}
		}
		v.Seats = append(v.Seats, sv)
	}
	return v
}

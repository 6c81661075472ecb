package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const authorityID = 1

// loadTable reads a table and its seats under a row lock.
func loadTable(tx *gorm.DB, id string) (*Table, *model.Table, error) {
	var rec model.Table
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, appErr.ErrTableNotFound
		}
		return nil, nil, err
	}

	var seats []model.PlayerSeat
	if err := tx.Where("table_id = ?", id).Find(&seats).Error; err != nil {
		return nil, nil, err
	}

	players := make([]string, rec.MaxPlayers)
	if len(rec.PlayersJSON) > 0 {
		var stored []string
		if err := json.Unmarshal(rec.PlayersJSON, &stored); err != nil {
			return nil, nil, fmt.Errorf("decode players of %s: %w", id, err)
		}
		copy(players, stored)
	}
	var community [5]Card
	if len(rec.CommunityJSON) > 0 {
		var codes []int
		if err := json.Unmarshal(rec.CommunityJSON, &codes); err != nil {
			return nil, nil, fmt.Errorf("decode community cards of %s: %w", id, err)
		}
		for i := 0; i < len(codes) && i < len(community); i++ {
			community[i] = Card(codes[i])
		}
	}

	t := &Table{
		ID:                 rec.ID,
		Host:               rec.Host,
		BuyIn:              rec.BuyIn,
		SmallBlind:         rec.SmallBlind,
		BigBlind:           rec.BigBlind,
		MaxPlayers:         rec.MaxPlayers,
		IsPrivate:          rec.IsPrivate,
		Status:             Status(rec.Status),
		Round:              Round(rec.Round),
		Players:            players,
		PlayerCount:        rec.PlayerCount,
		CurrentPlayerIndex: rec.CurrentPlayerIndex,
		DealerIndex:        rec.DealerIndex,
		Pot:                rec.Pot,
		HighestBet:         rec.HighestBet,
		CommunityCards:     community,
		HandNo:             rec.HandNo,
		Seats:              make(map[string]*Seat, len(seats)),
	}
	for _, s := range seats {
		t.Seats[s.Player] = &Seat{
			Player:     s.Player,
			Chips:      s.Chips,
			IsActive:   s.IsActive,
			IsFolded:   s.IsFolded,
			IsAllIn:    s.IsAllIn,
			CurrentBet: s.CurrentBet,
			HasActed:   s.HasActed,
			HoleCards:  [2]Card{Card(s.HoleCard0), Card(s.HoleCard1)},
		}
	}
	for _, p := range players {
		if p != "" && t.Seats[p] == nil {
			return nil, nil, fmt.Errorf("%w: table %s seats %s without a seat record", appErr.ErrIntegrityViolation, id, p)
		}
	}
	return t, &rec, nil
}

func tableRecord(t *Table, handID string, now time.Time) (model.Table, error) {
	players, err := json.Marshal(t.Players)
	if err != nil {
		return model.Table{}, err
	}
	codes := make([]int, len(t.CommunityCards))
	for i, c := range t.CommunityCards {
		codes[i] = int(c)
	}
	community, err := json.Marshal(codes)
	if err != nil {
		return model.Table{}, err
	}
	return model.Table{
		ID:                 t.ID,
		Host:               t.Host,
		BuyIn:              t.BuyIn,
		SmallBlind:         t.SmallBlind,
		BigBlind:           t.BigBlind,
		MaxPlayers:         t.MaxPlayers,
		IsPrivate:          t.IsPrivate,
		Status:             string(t.Status),
		Round:              string(t.Round),
		PlayersJSON:        datatypes.JSON(players),
		PlayerCount:        t.PlayerCount,
		CurrentPlayerIndex: t.CurrentPlayerIndex,
		DealerIndex:        t.DealerIndex,
		Pot:                t.Pot,
		HighestBet:         t.HighestBet,
		CommunityJSON:      datatypes.JSON(community),
		HandNo:             t.HandNo,
		HandID:             handID,
		UpdatedAt:          now,
	}, nil
}

// saveTable writes the table row and upserts every seat record.
func saveTable(tx *gorm.DB, t *Table, handID string, create bool, now time.Time) error {
	rec, err := tableRecord(t, handID, now)
	if err != nil {
		return err
	}
	if create {
		rec.CreatedAt = now
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
	} else if err := tx.Model(&model.Table{}).Where("id = ?", t.ID).Select("*").Omit("created_at").Updates(&rec).Error; err != nil {
		return err
	}

	for _, seat := range t.Seats {
		row := model.PlayerSeat{
			TableID:    t.ID,
			Player:     seat.Player,
			Chips:      seat.Chips,
			IsActive:   seat.IsActive,
			IsFolded:   seat.IsFolded,
			IsAllIn:    seat.IsAllIn,
			CurrentBet: seat.CurrentBet,
			HasActed:   seat.HasActed,
			HoleCard0:  uint8(seat.HoleCards[0]),
			HoleCard1:  uint8(seat.HoleCards[1]),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "table_id"}, {Name: "player"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"chips", "is_active", "is_folded", "is_all_in", "current_bet",
				"has_acted", "hole_card0", "hole_card1", "updated_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func loadAuthority(tx *gorm.DB) (*Authority, *model.GameAuthority, error) {
	var rec model.GameAuthority
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, authorityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, appErr.ErrAuthorityNotInitialized
		}
		return nil, nil, err
	}
	return &Authority{
		Owner:              rec.Owner,
		FeePercentage:      rec.FeePercentage,
		TotalGamesPlayed:   rec.TotalGamesPlayed,
		TotalFeesCollected: rec.TotalFeesCollected,
	}, &rec, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(data)
}

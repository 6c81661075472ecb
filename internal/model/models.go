package model

import (
	"time"

	"gorm.io/datatypes"
)

// Operators & authority

type Admin struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string
	Status       string `gorm:"default:active;not null"` // active/disabled
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GameAuthority is a singleton row, always ID 1.
type GameAuthority struct {
	ID                 int64 `gorm:"primaryKey"`
	Owner              string
	FeePercentage      uint8
	TotalGamesPlayed   uint64
	TotalFeesCollected uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Escrow ledger

type Wallet struct {
	Identity     string `gorm:"primaryKey;size:64"`
	Balance      uint64
	TotalDeposit uint64 // moved into table vaults
	TotalRefund  uint64 // returned from table vaults
	UpdatedAt    time.Time
}

type Vault struct {
	ID        string `gorm:"primaryKey;size:64"`
	Authority string `gorm:"size:32;not null"`
	Balance   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type EscrowLog struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Identity    string `gorm:"size:64;index"`
	VaultID     string `gorm:"size:64;index"`
	Type        string // deposit/withdraw/adjust
	Amount      uint64
	WalletAfter uint64
	VaultAfter  uint64
	MetaJSON    datatypes.JSON
	CreatedAt   time.Time
}

// Tables

type Table struct {
	ID                 string `gorm:"primaryKey;size:32"`
	Host               string `gorm:"size:64;not null"`
	BuyIn              uint64
	SmallBlind         uint64
	BigBlind           uint64
	MaxPlayers         int
	IsPrivate          bool           `gorm:"index"`
	Status             string         `gorm:"size:16;index"`
	Round              string         `gorm:"size:16"`
	PlayersJSON        datatypes.JSON // fixed-length seat array, "" for empty
	PlayerCount        int
	CurrentPlayerIndex int
	DealerIndex        int
	Pot                uint64
	HighestBet         uint64
	CommunityJSON      datatypes.JSON
	HandNo             uint64
	HandID             string `gorm:"size:36"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type PlayerSeat struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	TableID    string `gorm:"size:32;uniqueIndex:idx_seat_table_player;not null"`
	Player     string `gorm:"size:64;uniqueIndex:idx_seat_table_player;not null"`
	Chips      uint64
	IsActive   bool
	IsFolded   bool
	IsAllIn    bool
	CurrentBet uint64
	HasActed   bool
	HoleCard0  uint8
	HoleCard1  uint8
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ActionLog struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	TableID    string `gorm:"size:32;index"`
	HandNo     uint64
	HandID     string `gorm:"size:36;index"`
	Player     string `gorm:"size:64"`
	Action     string `gorm:"size:16"`
	Amount     uint64
	Round      string `gorm:"size:16"`
	ResultJSON datatypes.JSON
	CreatedAt  time.Time
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&GameAuthority{},
		&Wallet{},
		&Vault{},
		&EscrowLog{},
		&Table{},
		&PlayerSeat{},
		&ActionLog{},
	}
}

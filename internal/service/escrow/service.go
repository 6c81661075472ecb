package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/utils/safemath"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns player wallets and table vaults.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Ledger is an EscrowGateway bound to one database transaction, so value
// moves commit or roll back together with the table state.
type Ledger struct {
	tx  *gorm.DB
	now func() time.Time
}

var _ game.EscrowGateway = (*Ledger)(nil)

func (s *Service) Ledger(tx *gorm.DB) *Ledger {
	return &Ledger{tx: tx, now: time.Now}
}

func (s *Service) GetWallet(ctx context.Context, identity string) (*model.Wallet, error) {
	var wallet model.Wallet
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Wallet{Identity: identity}, nil
		}
		return nil, err
	}
	return &wallet, nil
}

func (s *Service) GetVault(ctx context.Context, tableID string) (*model.Vault, error) {
	var vault model.Vault
	err := s.db.WithContext(ctx).Where("id = ?", game.VaultID(tableID)).First(&vault).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Vault{ID: game.VaultID(tableID), Authority: tableID}, nil
		}
		return nil, err
	}
	return &vault, nil
}

// AdminSetWallet overwrites a wallet balance and records the adjustment.
func (s *Service) AdminSetWallet(ctx context.Context, identity string, balance uint64) (*model.Wallet, error) {
	if identity == "" {
		return nil, fmt.Errorf("%w: identity is required", appErr.ErrInvalidWalletPayload)
	}

	var wallet model.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identity = ?", identity).
			FirstOrCreate(&wallet, model.Wallet{Identity: identity}).Error; err != nil {
			return err
		}
		wallet.Balance = balance
		wallet.UpdatedAt = time.Now()
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}
		return tx.Create(&model.EscrowLog{
			Identity:    identity,
			Type:        "adjust",
			Amount:      balance,
			WalletAfter: balance,
			CreatedAt:   wallet.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (l *Ledger) Deposit(ctx context.Context, from, vaultID string, amount uint64) error {
	owner, ok := game.VaultOwner(vaultID)
	if !ok {
		return fmt.Errorf("%w: unknown vault %q", appErr.ErrInvalidVaultAuthority, vaultID)
	}
	tx := l.tx.WithContext(ctx)

	var wallet model.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("identity = ?", from).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s has no wallet", appErr.ErrInsufficientBalance, from)
		}
		return err
	}
	if wallet.Balance < amount {
		return fmt.Errorf("%w: need %d, have %d", appErr.ErrInsufficientBalance, amount, wallet.Balance)
	}

	var vault model.Vault
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", vaultID).
		FirstOrCreate(&vault, model.Vault{ID: vaultID, Authority: owner}).Error; err != nil {
		return err
	}

	walletAfter, err := safemath.Sub(wallet.Balance, amount)
	if err != nil {
		return err
	}
	vaultAfter, err := safemath.Add(vault.Balance, amount)
	if err != nil {
		return err
	}
	deposited, err := safemath.Add(wallet.TotalDeposit, amount)
	if err != nil {
		return err
	}

	now := l.now()
	wallet.Balance = walletAfter
	wallet.TotalDeposit = deposited
	wallet.UpdatedAt = now
	vault.Balance = vaultAfter
	vault.UpdatedAt = now
	return l.commit(tx, &wallet, &vault, model.EscrowLog{
		Identity:    from,
		VaultID:     vaultID,
		Type:        "deposit",
		Amount:      amount,
		WalletAfter: walletAfter,
		VaultAfter:  vaultAfter,
		CreatedAt:   now,
	})
}

func (l *Ledger) Withdraw(ctx context.Context, vaultID, to string, amount uint64, authority string) error {
	tx := l.tx.WithContext(ctx)

	var vault model.Vault
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", vaultID).First(&vault).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: vault %q not found", appErr.ErrInvalidVaultAuthority, vaultID)
		}
		return err
	}
	if vault.Authority != authority {
		return appErr.ErrInvalidVaultAuthority
	}
	vaultAfter, err := safemath.Sub(vault.Balance, amount)
	if err != nil {
		return err
	}

	var wallet model.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("identity = ?", to).
		FirstOrCreate(&wallet, model.Wallet{Identity: to}).Error; err != nil {
		return err
	}
	walletAfter, err := safemath.Add(wallet.Balance, amount)
	if err != nil {
		return err
	}
	refunded, err := safemath.Add(wallet.TotalRefund, amount)
	if err != nil {
		return err
	}

	now := l.now()
	wallet.Balance = walletAfter
	wallet.TotalRefund = refunded
	wallet.UpdatedAt = now
	vault.Balance = vaultAfter
	vault.UpdatedAt = now
	return l.commit(tx, &wallet, &vault, model.EscrowLog{
		Identity:    to,
		VaultID:     vaultID,
		Type:        "withdraw",
		Amount:      amount,
		WalletAfter: walletAfter,
		VaultAfter:  vaultAfter,
		CreatedAt:   now,
	})
}

func (l *Ledger) commit(tx *gorm.DB, wallet *model.Wallet, vault *model.Vault, entry model.EscrowLog) error {
	if err := tx.Save(wallet).Error; err != nil {
		return err
	}
	if err := tx.Save(vault).Error; err != nil {
		return err
	}
	entry.MetaJSON = mustJSON(map[string]interface{}{
		"authority": vault.Authority,
	})
	return tx.Create(&entry).Error
}

package escrow

import (
	"context"
	"fmt"
	"sync"

	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/utils/safemath"
)

// MemoryLedger is an in-process EscrowGateway for simulations and tests.
type MemoryLedger struct {
	mu      sync.Mutex
	wallets map[string]uint64
	vaults  map[string]uint64
}

var _ game.EscrowGateway = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		wallets: make(map[string]uint64),
		vaults:  make(map[string]uint64),
	}
}

func (m *MemoryLedger) Fund(identity string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[identity] += amount
}

func (m *MemoryLedger) Balance(identity string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wallets[identity]
}

func (m *MemoryLedger) VaultBalance(vault string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaults[vault]
}

func (m *MemoryLedger) Deposit(_ context.Context, from, vault string, amount uint64) error {
	if _, ok := game.VaultOwner(vault); !ok {
		return fmt.Errorf("%w: unknown vault %q", appErr.ErrInvalidVaultAuthority, vault)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallets[from] < amount {
		return fmt.Errorf("%w: need %d, have %d", appErr.ErrInsufficientBalance, amount, m.wallets[from])
	}
	vaultAfter, err := safemath.Add(m.vaults[vault], amount)
	if err != nil {
		return err
	}
	m.wallets[from] -= amount
	m.vaults[vault] = vaultAfter
	return nil
}

func (m *MemoryLedger) Withdraw(_ context.Context, vault, to string, amount uint64, authority string) error {
	owner, ok := game.VaultOwner(vault)
	if !ok || owner != authority {
		return appErr.ErrInvalidVaultAuthority
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	vaultAfter, err := safemath.Sub(m.vaults[vault], amount)
	if err != nil {
		return err
	}
	walletAfter, err := safemath.Add(m.wallets[to], amount)
	if err != nil {
		return err
	}
	m.vaults[vault] = vaultAfter
	m.wallets[to] = walletAfter
	return nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// ErrWalletNotFound is returned when an address is not in the registry
var ErrWalletNotFound = errors.New("wallet not found")

// WalletRepository defines read access to the smart-wallet registry
type WalletRepository interface {
	// GetByAddress returns the wallet for an address, or ErrWalletNotFound
	GetByAddress(ctx context.Context, address string) (*entities.SmartWallet, error)

	// List returns all tracked wallets
	List(ctx context.Context) ([]entities.SmartWallet, error)

	// TouchLastActive updates the wallet's last-active timestamp
	TouchLastActive(ctx context.Context, address string) error
}

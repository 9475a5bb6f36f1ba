package repositories

import (
	"context"
	"time"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// CursorRepository tracks the holdings monitor's per-wallet checkpoint
type CursorRepository interface {
	// Get returns the cursor for a wallet, or nil if the wallet has never
	// been polled
	Get(ctx context.Context, walletAddress string) (*entities.WalletCursor, error)

	// Upsert sets the cursor for a wallet
	Upsert(ctx context.Context, walletAddress string, lastSeenAt time.Time) error
}

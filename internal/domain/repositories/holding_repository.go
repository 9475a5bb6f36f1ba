package repositories

import (
	"context"
	"time"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// HoldingRepository defines access to the wallet holdings-history log.
// The log records the first time a wallet was seen holding each mint; the
// PNL engine uses it only to decide which mints to price.
type HoldingRepository interface {
	// DistinctMintsAcquired returns the mints a wallet was first seen
	// holding at or after the given time
	DistinctMintsAcquired(ctx context.Context, walletAddress string, since time.Time) ([]string, error)

	// GetByWallet returns the holding rows for a wallet since the given time
	GetByWallet(ctx context.Context, walletAddress string, since time.Time) ([]entities.WalletHolding, error)

	// Record upserts a holding row, keeping the earliest first-seen timestamp
	Record(ctx context.Context, holding entities.WalletHolding) error
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// Ensure HoldingRepo implements HoldingRepository
var _ repositories.HoldingRepository = (*HoldingRepo)(nil)

// HoldingRepo implements HoldingRepository using PostgreSQL
type HoldingRepo struct {
	db *sqlx.DB
}

// NewHoldingRepo creates a new holdings-history repository
func NewHoldingRepo(db *sqlx.DB) *HoldingRepo {
	return &HoldingRepo{db: db}
}

// DistinctMintsAcquired returns the mints a wallet was first seen holding
// at or after the given time
func (r *HoldingRepo) DistinctMintsAcquired(ctx context.Context, walletAddress string, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT token_mint
		FROM wallet_holding_history
		WHERE wallet_address = $1 AND first_seen >= $2`

	var mints []string
	if err := r.db.SelectContext(ctx, &mints, query, walletAddress, since); err != nil {
		return nil, fmt.Errorf("failed to get distinct mints: %w", err)
	}

	return mints, nil
}

// GetByWallet returns the holding rows for a wallet since the given time
func (r *HoldingRepo) GetByWallet(ctx context.Context, walletAddress string, since time.Time) ([]entities.WalletHolding, error) {
	query := `
		SELECT wallet_address, token_mint, first_seen
		FROM wallet_holding_history
		WHERE wallet_address = $1 AND first_seen >= $2
		ORDER BY first_seen DESC`

	var holdings []entities.WalletHolding
	if err := r.db.SelectContext(ctx, &holdings, query, walletAddress, since); err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	return holdings, nil
}

// Record upserts a holding row. ON CONFLICT DO NOTHING keeps the earliest
// first-seen timestamp for the (wallet, mint) pair.
func (r *HoldingRepo) Record(ctx context.Context, holding entities.WalletHolding) error {
	query := `
		INSERT INTO wallet_holding_history (wallet_address, token_mint, first_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_address, token_mint) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, holding.WalletAddress, holding.TokenMint, holding.FirstSeen); err != nil {
		return fmt.Errorf("failed to record holding: %w", err)
	}

	return nil
}

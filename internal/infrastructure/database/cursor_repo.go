package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// Ensure CursorRepo implements CursorRepository
var _ repositories.CursorRepository = (*CursorRepo)(nil)

// CursorRepo implements CursorRepository using PostgreSQL
type CursorRepo struct {
	db *sqlx.DB
}

// NewCursorRepo creates a new cursor repository
func NewCursorRepo(db *sqlx.DB) *CursorRepo {
	return &CursorRepo{db: db}
}

// Get returns the cursor for a wallet, or nil if the wallet has never been
// polled
func (r *CursorRepo) Get(ctx context.Context, walletAddress string) (*entities.WalletCursor, error) {
	query := `
		SELECT wallet_address, last_seen_at, updated_at
		FROM wallet_cursors
		WHERE wallet_address = $1`

	var cursor entities.WalletCursor
	if err := r.db.GetContext(ctx, &cursor, query, walletAddress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cursor: %w", err)
	}

	return &cursor, nil
}

// Upsert sets the cursor for a wallet
func (r *CursorRepo) Upsert(ctx context.Context, walletAddress string, lastSeenAt time.Time) error {
	query := `
		INSERT INTO wallet_cursors (wallet_address, last_seen_at, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet_address) DO UPDATE SET
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, walletAddress, lastSeenAt); err != nil {
		return fmt.Errorf("failed to upsert cursor: %w", err)
	}

	return nil
}

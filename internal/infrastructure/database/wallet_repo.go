package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// Ensure WalletRepo implements WalletRepository
var _ repositories.WalletRepository = (*WalletRepo)(nil)

// WalletRepo implements WalletRepository using PostgreSQL
type WalletRepo struct {
	db *sqlx.DB
}

// NewWalletRepo creates a new wallet repository
func NewWalletRepo(db *sqlx.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// GetByAddress returns the wallet for an address, or ErrWalletNotFound
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*entities.SmartWallet, error) {
	query := `
		SELECT id, address, name, first_seen, last_active, profit_rate, total_trades
		FROM smart_wallets
		WHERE address = $1`

	var wallet entities.SmartWallet
	if err := r.db.GetContext(ctx, &wallet, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

// List returns all tracked wallets
func (r *WalletRepo) List(ctx context.Context) ([]entities.SmartWallet, error) {
	query := `
		SELECT id, address, name, first_seen, last_active, profit_rate, total_trades
		FROM smart_wallets
		ORDER BY id`

	var wallets []entities.SmartWallet
	if err := r.db.SelectContext(ctx, &wallets, query); err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}

// TouchLastActive updates the wallet's last-active timestamp
func (r *WalletRepo) TouchLastActive(ctx context.Context, address string) error {
	query := `UPDATE smart_wallets SET last_active = NOW() WHERE address = $1`

	if _, err := r.db.ExecContext(ctx, query, address); err != nil {
		return fmt.Errorf("failed to update last_active: %w", err)
	}

	return nil
}

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

// Ensure TokenRepo implements TokenRepository
var _ repositories.TokenRepository = (*TokenRepo)(nil)

// TokenRepo implements TokenRepository using PostgreSQL
type TokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo creates a new token repository
func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// GetByMint returns the token for a mint, or nil if unknown
func (r *TokenRepo) GetByMint(ctx context.Context, mint string) (*entities.Token, error) {
	query := `
		SELECT mint, symbol, name, decimals, created_at, updated_at
		FROM tokens
		WHERE mint = $1`

	var token entities.Token
	if err := r.db.GetContext(ctx, &token, query, mint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

// Upsert inserts or updates a token
func (r *TokenRepo) Upsert(ctx context.Context, token *entities.Token) error {
	query := `
		INSERT INTO tokens (mint, symbol, name, decimals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (mint) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			decimals = EXCLUDED.decimals,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, token.Mint, token.Symbol, token.Name, token.Decimals); err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}

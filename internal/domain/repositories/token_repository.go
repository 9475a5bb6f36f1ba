package repositories

import (
	"context"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// TokenRepository defines access to token display metadata
type TokenRepository interface {
	// GetByMint returns the token for a mint, or nil if unknown
	GetByMint(ctx context.Context, mint string) (*entities.Token, error)

	// Upsert inserts or updates a token
	Upsert(ctx context.Context, token *entities.Token) error
}

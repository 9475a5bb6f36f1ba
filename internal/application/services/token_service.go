package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/cache"
)

// MetadataSource resolves display metadata for mints. Implemented by the
// Helius client.
type MetadataSource interface {
	GetTokenMetadata(ctx context.Context, mints []string) (map[string]entities.Token, error)
}

// TokenService resolves token display metadata. Symbols are display-only
// and never feed the PNL math.
type TokenService struct {
	tokenRepo repositories.TokenRepository
	source    MetadataSource
	cache     *cache.RedisCache
	logger    *zap.Logger
}

// NewTokenService creates a new token service
func NewTokenService(
	tokenRepo repositories.TokenRepository,
	source MetadataSource,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		source:    source,
		cache:     cache,
		logger:    logger,
	}
}

// TokenDTO is the API representation of a token
type TokenDTO struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// TokenResponse wraps a token for API response
type TokenResponse struct {
	Data TokenDTO `json:"data"`
}

// placeholder values seeded by the monitor before metadata is known
const (
	placeholderSymbol = "UNK"
	placeholderName   = "Unknown"
)

// ResolveSymbol returns the display symbol for a mint, or "" if it cannot
// be resolved. Resolution order: cache, database, upstream metadata API;
// upstream hits are written back to both.
func (s *TokenService) ResolveSymbol(ctx context.Context, mint string) (string, error) {
	token, err := s.resolve(ctx, mint)
	if err != nil {
		return "", err
	}
	if token == nil || token.Symbol == placeholderSymbol {
		return "", nil
	}
	return token.Symbol, nil
}

// GetToken returns full display metadata for a mint
func (s *TokenService) GetToken(ctx context.Context, mint string) (*TokenResponse, error) {
	token, err := s.resolve(ctx, mint)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	return &TokenResponse{
		Data: TokenDTO{
			Mint:     token.Mint,
			Symbol:   token.Symbol,
			Name:     token.Name,
			Decimals: token.Decimals,
		},
	}, nil
}

func (s *TokenService) resolve(ctx context.Context, mint string) (*entities.Token, error) {
	cacheKey := fmt.Sprintf("token:%s", mint)

	var cached entities.Token
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	token, err := s.tokenRepo.GetByMint(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	// Unknown mint or placeholder row: try the upstream metadata API once.
	if token == nil || token.Symbol == placeholderSymbol || token.Symbol == "" {
		resolved, err := s.fetchUpstream(ctx, mint)
		if err != nil {
			s.logger.Warn("Token metadata lookup failed",
				zap.String("mint", mint),
				zap.Error(err),
			)
		} else if resolved != nil {
			token = resolved
		}
	}

	if token == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cacheKey, token, 10*time.Minute); err != nil {
			s.logger.Warn("Failed to cache token", zap.Error(err))
		}
	}

	return token, nil
}

func (s *TokenService) fetchUpstream(ctx context.Context, mint string) (*entities.Token, error) {
	if s.source == nil {
		return nil, nil
	}

	meta, err := s.source.GetTokenMetadata(ctx, []string{mint})
	if err != nil {
		return nil, err
	}

	token, ok := meta[mint]
	if !ok || token.Symbol == "" {
		return nil, nil
	}

	if err := s.tokenRepo.Upsert(ctx, &token); err != nil {
		s.logger.Warn("Failed to persist token metadata",
			zap.String("mint", mint),
			zap.Error(err),
		)
	}

	return &token, nil
}

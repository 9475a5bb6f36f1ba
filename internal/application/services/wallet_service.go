package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/cache"
)

// WalletService serves registry and holdings-history views
type WalletService struct {
	walletRepo  repositories.WalletRepository
	holdingRepo repositories.HoldingRepository
	cache       *cache.RedisCache
	logger      *zap.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(
	walletRepo repositories.WalletRepository,
	holdingRepo repositories.HoldingRepository,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// WalletDTO is the API representation of a tracked wallet
type WalletDTO struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	FirstSeen   string `json:"first_seen"`
	LastActive  string `json:"last_active"`
	TotalTrades int64  `json:"total_trades"`
}

// WalletListResponse wraps the registry listing for API response
type WalletListResponse struct {
	Data []WalletDTO `json:"data"`
}

// HoldingDTO is the API representation of one holdings-history row
type HoldingDTO struct {
	TokenMint string `json:"token_mint"`
	FirstSeen string `json:"first_seen"`
}

// HoldingListResponse wraps a wallet's holdings history for API response
type HoldingListResponse struct {
	WalletAddress string       `json:"wallet_address"`
	PeriodDays    int          `json:"period_days"`
	Data          []HoldingDTO `json:"data"`
}

// ListWallets returns all tracked wallets
func (s *WalletService) ListWallets(ctx context.Context) (*WalletListResponse, error) {
	cacheKey := "wallets:list"

	var cached WalletListResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	dtos := make([]WalletDTO, len(wallets))
	for i, w := range wallets {
		dtos[i] = WalletDTO{
			Address:     w.Address,
			Name:        w.Name,
			FirstSeen:   w.FirstSeen.UTC().Format(time.RFC3339),
			LastActive:  w.LastActive.UTC().Format(time.RFC3339),
			TotalTrades: w.TotalTrades,
		}
	}

	response := &WalletListResponse{Data: dtos}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cacheKey, response, time.Minute); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// GetHoldings returns the mints a wallet was first seen holding within the
// window. Unknown wallets return repositories.ErrWalletNotFound.
func (s *WalletService) GetHoldings(ctx context.Context, walletAddress string, days int) (*HoldingListResponse, error) {
	if _, err := s.walletRepo.GetByAddress(ctx, walletAddress); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	holdings, err := s.holdingRepo.GetByWallet(ctx, walletAddress, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	dtos := make([]HoldingDTO, len(holdings))
	for i, h := range holdings {
		dtos[i] = HoldingDTO{
			TokenMint: h.TokenMint,
			FirstSeen: h.FirstSeen.UTC().Format(time.RFC3339),
		}
	}

	return &HoldingListResponse{
		WalletAddress: walletAddress,
		PeriodDays:    days,
		Data:          dtos,
	}, nil
}

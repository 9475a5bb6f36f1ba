package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/cache"
)

// TransactionSource provides transfer-level transaction history for a wallet
// over a lookback window in days. Implemented by the Helius client.
type TransactionSource interface {
	GetWalletTransactions(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error)
}

// PnlService computes realized wallet PNL from raw transaction history
type PnlService struct {
	walletRepo  repositories.WalletRepository
	holdingRepo repositories.HoldingRepository
	source      TransactionSource
	cache       *cache.RedisCache
	config      config.PnlConfig
	logger      *zap.Logger
}

// NewPnlService creates a new PNL service
func NewPnlService(
	walletRepo repositories.WalletRepository,
	holdingRepo repositories.HoldingRepository,
	source TransactionSource,
	cache *cache.RedisCache,
	cfg config.PnlConfig,
	logger *zap.Logger,
) *PnlService {
	return &PnlService{
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		source:      source,
		cache:       cache,
		config:      cfg,
		logger:      logger,
	}
}

// WalletPnlResult is one entry of the all-wallets report. Exactly one of
// Pnl and Error is set.
type WalletPnlResult struct {
	WalletAddress string              `json:"wallet_address"`
	Pnl           *entities.WalletPnL `json:"pnl,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// historyDays widens the fetch window so buys preceding the requested
// window are less likely to be clipped out of the cost basis.
func (s *PnlService) historyDays(windowDays int) int {
	days := windowDays * 3
	if days < s.config.MinHistoryDays {
		days = s.config.MinHistoryDays
	}
	return days
}

// ComputeWalletPnl computes the PNL summary for one tracked wallet over the
// given lookback window. Unknown wallets return
// repositories.ErrWalletNotFound; a failed fetch for a single mint degrades
// that mint to an all-zero record instead of failing the report.
func (s *PnlService) ComputeWalletPnl(ctx context.Context, walletAddress string, days int) (*entities.WalletPnL, error) {
	wallet, err := s.walletRepo.GetByAddress(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("pnl:%s:%d", walletAddress, days)

	var cached entities.WalletPnL
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	mints, err := s.holdingRepo.DistinctMintsAcquired(ctx, walletAddress, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate mints: %w", err)
	}

	start := time.Now()
	tokenPnls := s.computeTokenPnls(ctx, walletAddress, mints, days)
	pnlComputeDuration.Observe(time.Since(start).Seconds())
	pnlComputationsTotal.Inc()

	result := &entities.WalletPnL{
		WalletAddress: walletAddress,
		WalletName:    wallet.Name,
		PeriodDays:    days,
		TokenPnls:     tokenPnls,
	}

	for _, pnl := range tokenPnls {
		result.TotalInvested = result.TotalInvested.Add(pnl.Invested)
		result.TotalRemainingInvestment = result.TotalRemainingInvestment.Add(pnl.RemainingInvestment)
		result.TotalRealizedPnl = result.TotalRealizedPnl.Add(pnl.RealizedPnl)
		result.TotalBuyTransactions += pnl.BuyTransactions
		result.TotalSellTransactions += pnl.SellTransactions
	}
	result.TotalTransactions = result.TotalBuyTransactions + result.TotalSellTransactions

	// Realized cost basis = invested minus what is still held at avg price
	realizedBasis := result.TotalInvested.Sub(result.TotalRemainingInvestment)
	if realizedBasis.IsPositive() {
		result.OverallProfitPercentage = result.TotalRealizedPnl.Div(realizedBasis).Mul(oneHundred)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			s.logger.Warn("Failed to cache PNL report", zap.Error(err))
		}
	}

	return result, nil
}

// computeTokenPnls runs the per-mint computation with bounded parallelism.
// One failing mint never cancels the others: a fetch failure degrades that
// mint to an all-zero record.
func (s *PnlService) computeTokenPnls(ctx context.Context, walletAddress string, mints []string, days int) []entities.TokenPnL {
	results := make([]entities.TokenPnL, len(mints))
	historyDays := s.historyDays(days)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrentMints)

	for i, mint := range mints {
		i, mint := i, mint
		g.Go(func() error {
			txs, err := s.source.GetWalletTransactions(gctx, walletAddress, historyDays)
			if err != nil {
				pnlUpstreamFailuresTotal.Inc()
				s.logger.Warn("Transaction fetch failed, zeroing mint",
					zap.String("wallet", walletAddress),
					zap.String("mint", mint),
					zap.Error(err),
				)
				results[i] = entities.ZeroTokenPnL(mint)
				return nil
			}

			results[i] = computeTokenPnl(walletAddress, mint, txs)
			return nil
		})
	}

	// Branches never return errors; Wait only orders the writes above.
	_ = g.Wait()

	return results
}

// ComputeAllWalletsPnl computes the PNL summary for every tracked wallet.
// Result order is completion order; callers must not depend on it. A failed
// wallet contributes a structured error entry instead of failing the batch.
func (s *PnlService) ComputeAllWalletsPnl(ctx context.Context, days int) ([]WalletPnlResult, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	var (
		mu      sync.Mutex
		results []WalletPnlResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrentWallets)

	for _, wallet := range wallets {
		address := wallet.Address
		g.Go(func() error {
			pnl, err := s.ComputeWalletPnl(gctx, address, days)

			entry := WalletPnlResult{WalletAddress: address}
			if err != nil {
				s.logger.Error("Failed to compute wallet PNL",
					zap.String("wallet", address),
					zap.Error(err),
				)
				entry.Error = err.Error()
			} else {
				entry.Pnl = pnl
			}

			mu.Lock()
			results = append(results, entry)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	return results, nil
}

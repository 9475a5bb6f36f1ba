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

// MonitorService maintains the holdings-history index the PNL engine reads
// its mint candidates from. It polls every registry wallet on an interval,
// records mints the wallet newly received, and checkpoints a per-wallet
// cursor so restarts pick up where the last poll stopped.
type MonitorService struct {
	source      TransactionSource
	walletRepo  repositories.WalletRepository
	holdingRepo repositories.HoldingRepository
	tokenRepo   repositories.TokenRepository
	cursorRepo  repositories.CursorRepository
	cache       *cache.RedisCache
	config      config.MonitorConfig
	logger      *zap.Logger
	metrics     *MonitorMetrics
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// MonitorMetrics tracks monitor progress
type MonitorMetrics struct {
	mu               sync.RWMutex
	WalletsPolled    int64
	HoldingsRecorded int64
	LastPollTime     time.Time
	ErrorCount       int64
}

// NewMonitorService creates a new holdings monitor
func NewMonitorService(
	source TransactionSource,
	walletRepo repositories.WalletRepository,
	holdingRepo repositories.HoldingRepository,
	tokenRepo repositories.TokenRepository,
	cursorRepo repositories.CursorRepository,
	cache *cache.RedisCache,
	cfg config.MonitorConfig,
	logger *zap.Logger,
) *MonitorService {
	return &MonitorService{
		source:      source,
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		tokenRepo:   tokenRepo,
		cursorRepo:  cursorRepo,
		cache:       cache,
		config:      cfg,
		logger:      logger,
		metrics:     &MonitorMetrics{},
		stopCh:      make(chan struct{}),
	}
}

// Start begins the polling loop
func (s *MonitorService) Start(ctx context.Context) {
	s.logger.Info("Starting holdings monitor",
		zap.Duration("poll_interval", s.config.PollInterval),
	)

	s.wg.Add(1)
	go s.runPollLoop(ctx)
}

// Stop gracefully stops the monitor
func (s *MonitorService) Stop() {
	s.logger.Info("Stopping holdings monitor")
	close(s.stopCh)
	s.wg.Wait()
}

// GetMetrics returns a snapshot of the monitor metrics
func (s *MonitorService) GetMetrics() MonitorMetrics {
	s.metrics.mu.RLock()
	defer s.metrics.mu.RUnlock()
	return MonitorMetrics{
		WalletsPolled:    s.metrics.WalletsPolled,
		HoldingsRecorded: s.metrics.HoldingsRecorded,
		LastPollTime:     s.metrics.LastPollTime,
		ErrorCount:       s.metrics.ErrorCount,
	}
}

func (s *MonitorService) runPollLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	// Run immediately on start
	s.pollAllWallets(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.pollAllWallets(ctx)
		}
	}
}

// pollAllWallets polls every registry wallet once, bounded by WorkerCount.
// One failing wallet does not stop the others.
func (s *MonitorService) pollAllWallets(ctx context.Context) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list wallets", zap.Error(err))
		s.incrementErrorCount()
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.WorkerCount)

	for _, wallet := range wallets {
		wallet := wallet
		g.Go(func() error {
			if err := s.pollWallet(gctx, wallet); err != nil {
				monitorPollErrorsTotal.Inc()
				s.logger.Error("Failed to poll wallet",
					zap.String("wallet", wallet.Address),
					zap.Error(err),
				)
				s.incrementErrorCount()
			}
			return nil
		})
	}

	_ = g.Wait()

	s.metrics.mu.Lock()
	s.metrics.LastPollTime = time.Now()
	s.metrics.mu.Unlock()
}

// pollWallet fetches transactions newer than the wallet's cursor and records
// every non-SOL mint the wallet received as a holdings-history row.
func (s *MonitorService) pollWallet(ctx context.Context, wallet entities.SmartWallet) error {
	cursor, err := s.cursorRepo.Get(ctx, wallet.Address)
	if err != nil {
		return fmt.Errorf("failed to get cursor: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -s.config.LookbackDays)
	if cursor != nil && cursor.LastSeenAt.After(since) {
		since = cursor.LastSeenAt
	}

	days := int(time.Since(since).Hours()/24) + 1
	txs, err := s.source.GetWalletTransactions(ctx, wallet.Address, days)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	recorded := 0
	newest := since
	for _, tx := range txs {
		ts := time.Unix(tx.Timestamp, 0).UTC()
		if !ts.After(since) {
			continue
		}
		if ts.After(newest) {
			newest = ts
		}

		for _, tr := range tx.TokenTransfers {
			if tr.ToUserAccount != wallet.Address {
				continue
			}
			if tr.Mint == "" || tr.Mint == entities.WrappedSolMint {
				continue
			}

			holding := entities.WalletHolding{
				WalletAddress: wallet.Address,
				TokenMint:     tr.Mint,
				FirstSeen:     ts,
			}
			if err := s.holdingRepo.Record(ctx, holding); err != nil {
				return fmt.Errorf("failed to record holding: %w", err)
			}
			recorded++
			monitorHoldingsRecordedTotal.Inc()

			if err := s.ensureToken(ctx, tr.Mint); err != nil {
				s.logger.Warn("Failed to seed token row",
					zap.String("mint", tr.Mint),
					zap.Error(err),
				)
			}
		}
	}

	if recorded > 0 {
		// New history changes the mint-candidate set, so cached reports for
		// this wallet are stale.
		if s.cache != nil {
			if err := s.cache.DeletePattern(ctx, fmt.Sprintf("pnl:%s:*", wallet.Address)); err != nil {
				s.logger.Warn("Failed to invalidate PNL cache", zap.Error(err))
			}
		}
		if err := s.walletRepo.TouchLastActive(ctx, wallet.Address); err != nil {
			s.logger.Warn("Failed to touch wallet", zap.Error(err))
		}
	}

	if newest.After(since) || cursor == nil {
		if err := s.cursorRepo.Upsert(ctx, wallet.Address, newest); err != nil {
			return fmt.Errorf("failed to update cursor: %w", err)
		}
	}

	s.metrics.mu.Lock()
	s.metrics.WalletsPolled++
	s.metrics.HoldingsRecorded += int64(recorded)
	s.metrics.mu.Unlock()

	s.logger.Debug("Polled wallet",
		zap.String("wallet", wallet.Address),
		zap.Int("transactions", len(txs)),
		zap.Int("holdings_recorded", recorded),
	)

	return nil
}

// ensureToken seeds a placeholder token row so symbol metadata can be
// resolved later without blocking the poll.
func (s *MonitorService) ensureToken(ctx context.Context, mint string) error {
	existing, err := s.tokenRepo.GetByMint(ctx, mint)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	return s.tokenRepo.Upsert(ctx, &entities.Token{
		Mint:   mint,
		Name:   "Unknown",
		Symbol: "UNK",
	})
}

func (s *MonitorService) incrementErrorCount() {
	s.metrics.mu.Lock()
	s.metrics.ErrorCount++
	s.metrics.mu.Unlock()
}

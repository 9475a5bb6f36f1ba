package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
	"github.com/solwatch/wallet-pnl/internal/testutil"
)

func testPnlConfig() config.PnlConfig {
	return config.PnlConfig{
		DefaultWindowDays:    7,
		MaxWindowDays:        90,
		MinHistoryDays:       45,
		MaxConcurrentMints:   8,
		MaxConcurrentWallets: 4,
	}
}

func newPnlFixture() (*PnlService, *testutil.MockWalletRepository, *testutil.MockHoldingRepository, *testutil.MockTransactionSource) {
	walletRepo := testutil.NewMockWalletRepository()
	holdingRepo := testutil.NewMockHoldingRepository()
	source := testutil.NewMockTransactionSource()
	svc := NewPnlService(walletRepo, holdingRepo, source, nil, testPnlConfig(), zap.NewNop())
	return svc, walletRepo, holdingRepo, source
}

func seedRecentHolding(holdingRepo *testutil.MockHoldingRepository, wallet, mint string) {
	holdingRepo.AddHolding(entities.WalletHolding{
		WalletAddress: wallet,
		TokenMint:     mint,
		FirstSeen:     time.Now().UTC().Add(-time.Hour),
	})
}

func TestComputeWalletPnl_UnknownWallet(t *testing.T) {
	svc, _, _, _ := newPnlFixture()

	_, err := svc.ComputeWalletPnl(context.Background(), "nobody", 7)
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		t.Errorf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestComputeWalletPnl_NoCandidateMints(t *testing.T) {
	svc, walletRepo, _, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())

	result, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.TokenPnls) != 0 {
		t.Errorf("expected no token entries, got %d", len(result.TokenPnls))
	}
	if !result.TotalInvested.IsZero() || !result.TotalRealizedPnl.IsZero() {
		t.Errorf("expected zero totals, got %+v", result)
	}
	if source.CallCount() != 0 {
		t.Errorf("expected no upstream fetches, got %d", source.CallCount())
	}
	if result.WalletName != "alpha-hunter" {
		t.Errorf("expected registry name, got %q", result.WalletName)
	}
}

func TestComputeWalletPnl_AggregatesAcrossMints(t *testing.T) {
	svc, walletRepo, holdingRepo, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.BonkMint)
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.WifMint)

	source.SetTransactions(testutil.TestWallet, []entities.RawTransaction{
		// Bonk: buy 100 for 10, sell 40 for 6 -> realized 2, remaining inv 6.
		testutil.BuyTransaction(testutil.TestWallet, testutil.BonkMint, 100, 10),
		testutil.SellTransaction(testutil.TestWallet, testutil.BonkMint, 40, 6),
		// Wif: buy 50 for 5, no sells.
		testutil.BuyTransaction(testutil.TestWallet, testutil.WifMint, 50, 5),
	})

	result, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.TokenPnls) != 2 {
		t.Fatalf("expected 2 token entries, got %d", len(result.TokenPnls))
	}
	decEq(t, "total invested", result.TotalInvested, 15)
	decEq(t, "total realized", result.TotalRealizedPnl, 2)
	decEq(t, "total remaining investment", result.TotalRemainingInvestment, 11)
	// Realized basis = 15 - 11 = 4, so 2/4 = 50%.
	decEq(t, "overall profit percentage", result.OverallProfitPercentage, 50)
	if result.TotalBuyTransactions != 2 || result.TotalSellTransactions != 1 {
		t.Errorf("expected 2 buys / 1 sell, got %d / %d",
			result.TotalBuyTransactions, result.TotalSellTransactions)
	}
	if result.TotalTransactions != 3 {
		t.Errorf("expected 3 total transactions, got %d", result.TotalTransactions)
	}
	if result.PeriodDays != 7 {
		t.Errorf("expected period 7, got %d", result.PeriodDays)
	}
}

func TestComputeWalletPnl_WidensFetchWindow(t *testing.T) {
	svc, walletRepo, holdingRepo, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.BonkMint)

	var gotDays int
	source.GetWalletTransactionsFunc = func(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error) {
		gotDays = days
		return nil, nil
	}

	if _, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDays != 45 {
		t.Errorf("expected 7-day window widened to the 45-day floor, got %d", gotDays)
	}

	if _, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDays != 90 {
		t.Errorf("expected 30-day window widened to 90, got %d", gotDays)
	}
}

func TestComputeWalletPnl_FetchFailureDegradesToZero(t *testing.T) {
	svc, walletRepo, holdingRepo, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.BonkMint)
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.WifMint)

	source.GetWalletTransactionsFunc = func(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error) {
		return nil, errors.New("helius unavailable")
	}

	result, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7)
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}

	if len(result.TokenPnls) != 2 {
		t.Fatalf("expected 2 zeroed entries, got %d", len(result.TokenPnls))
	}
	for _, pnl := range result.TokenPnls {
		if !pnl.Invested.IsZero() || !pnl.RealizedPnl.IsZero() || pnl.TotalTransactions != 0 {
			t.Errorf("expected all-zero entry for %s, got %+v", pnl.TokenMint, pnl)
		}
		if pnl.TokenMint == "" {
			t.Error("zeroed entry lost its mint")
		}
	}
	if !result.TotalRealizedPnl.IsZero() {
		t.Errorf("expected zero totals, got %s", result.TotalRealizedPnl)
	}
}

func TestComputeWalletPnl_PartialFetchFailure(t *testing.T) {
	svc, walletRepo, holdingRepo, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.BonkMint)
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.WifMint)

	// The first fetch to arrive fails; history fetches carry no mint, so
	// which mint degrades is scheduling-dependent. Assert shape, not order.
	var calls atomic.Int64
	source.GetWalletTransactionsFunc = func(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("rate limited")
		}
		return []entities.RawTransaction{
			testutil.BuyTransaction(testutil.TestWallet, testutil.BonkMint, 100, 10),
			testutil.BuyTransaction(testutil.TestWallet, testutil.WifMint, 50, 5),
		}, nil
	}

	result, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.TokenPnls) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.TokenPnls))
	}

	wantInvested := map[string]float64{
		testutil.BonkMint: 10,
		testutil.WifMint:  5,
	}
	var zeroed, priced int
	for _, pnl := range result.TokenPnls {
		if pnl.TotalTransactions == 0 && pnl.Invested.IsZero() {
			zeroed++
			continue
		}
		priced++
		decEq(t, "invested for "+pnl.TokenMint, pnl.Invested, wantInvested[pnl.TokenMint])
	}
	if zeroed != 1 || priced != 1 {
		t.Errorf("expected exactly 1 degraded and 1 priced mint, got %d / %d", zeroed, priced)
	}
}

func TestComputeWalletPnl_HoldingRepoErrorFails(t *testing.T) {
	svc, walletRepo, holdingRepo, _ := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	holdingRepo.DistinctMintsAcquiredFunc = func(ctx context.Context, walletAddress string, since time.Time) ([]string, error) {
		return nil, errors.New("db down")
	}

	if _, err := svc.ComputeWalletPnl(context.Background(), testutil.TestWallet, 7); err == nil {
		t.Error("expected error when the holdings log is unavailable")
	}
}

func TestComputeAllWalletsPnl(t *testing.T) {
	svc, walletRepo, holdingRepo, source := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	walletRepo.AddWallet(testutil.CreateTestWallet(
		testutil.WalletWithID(2),
		testutil.WalletWithAddress(testutil.OtherWallet),
		testutil.WalletWithName("degen-two"),
	))
	seedRecentHolding(holdingRepo, testutil.TestWallet, testutil.BonkMint)

	source.SetTransactions(testutil.TestWallet, []entities.RawTransaction{
		testutil.BuyTransaction(testutil.TestWallet, testutil.BonkMint, 100, 10),
	})

	results, err := svc.ComputeAllWalletsPnl(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, r := range results {
		if r.Error != "" {
			t.Errorf("unexpected error entry for %s: %s", r.WalletAddress, r.Error)
		}
		if r.Pnl == nil {
			t.Errorf("missing pnl for %s", r.WalletAddress)
		}
	}
}

func TestComputeAllWalletsPnl_FailedWalletGetsErrorEntry(t *testing.T) {
	svc, walletRepo, holdingRepo, _ := newPnlFixture()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	walletRepo.AddWallet(testutil.CreateTestWallet(
		testutil.WalletWithID(2),
		testutil.WalletWithAddress(testutil.OtherWallet),
	))

	holdingRepo.DistinctMintsAcquiredFunc = func(ctx context.Context, walletAddress string, since time.Time) ([]string, error) {
		if walletAddress == testutil.OtherWallet {
			return nil, errors.New("db timeout")
		}
		return nil, nil
	}

	results, err := svc.ComputeAllWalletsPnl(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var errEntries, okEntries int
	for _, r := range results {
		if r.Error != "" {
			errEntries++
			if r.WalletAddress != testutil.OtherWallet {
				t.Errorf("error entry on wrong wallet: %s", r.WalletAddress)
			}
			if r.Pnl != nil {
				t.Error("error entry should not carry a pnl")
			}
		} else {
			okEntries++
		}
	}
	if errEntries != 1 || okEntries != 1 {
		t.Errorf("expected 1 error and 1 ok entry, got %d / %d", errEntries, okEntries)
	}
}

func TestComputeAllWalletsPnl_ListFailure(t *testing.T) {
	svc, walletRepo, _, _ := newPnlFixture()
	walletRepo.ListFunc = func(ctx context.Context) ([]entities.SmartWallet, error) {
		return nil, errors.New("db down")
	}

	if _, err := svc.ComputeAllWalletsPnl(context.Background(), 7); err == nil {
		t.Error("expected error when the registry is unavailable")
	}
}

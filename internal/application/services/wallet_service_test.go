package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
	"github.com/solwatch/wallet-pnl/internal/testutil"
)

func TestListWallets(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	walletRepo.AddWallet(testutil.CreateTestWallet(
		testutil.WalletWithID(2),
		testutil.WalletWithAddress(testutil.OtherWallet),
		testutil.WalletWithName("degen-two"),
	))
	svc := NewWalletService(walletRepo, testutil.NewMockHoldingRepository(), nil, zap.NewNop())

	resp, err := svc.ListWallets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(resp.Data))
	}
	for _, w := range resp.Data {
		if w.Address == "" || w.Name == "" {
			t.Errorf("incomplete dto: %+v", w)
		}
		if _, err := time.Parse(time.RFC3339, w.FirstSeen); err != nil {
			t.Errorf("first_seen not RFC3339: %q", w.FirstSeen)
		}
	}
}

func TestGetHoldings(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	holdingRepo := testutil.NewMockHoldingRepository()
	holdingRepo.AddHolding(testutil.CreateTestHolding(testutil.HoldingWithFirstSeen(time.Now().UTC().Add(-time.Hour))))
	holdingRepo.AddHolding(testutil.CreateTestHolding(
		testutil.HoldingWithMint(testutil.WifMint),
		testutil.HoldingWithFirstSeen(time.Now().UTC().AddDate(0, 0, -30)),
	))
	svc := NewWalletService(walletRepo, holdingRepo, nil, zap.NewNop())

	resp, err := svc.GetHoldings(context.Background(), testutil.TestWallet, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PeriodDays != 7 {
		t.Errorf("expected period 7, got %d", resp.PeriodDays)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 holding inside the window, got %d", len(resp.Data))
	}
	if resp.Data[0].TokenMint != testutil.BonkMint {
		t.Errorf("expected bonk, got %s", resp.Data[0].TokenMint)
	}
}

func TestGetHoldings_UnknownWallet(t *testing.T) {
	svc := NewWalletService(testutil.NewMockWalletRepository(), testutil.NewMockHoldingRepository(), nil, zap.NewNop())

	_, err := svc.GetHoldings(context.Background(), "nobody", 7)
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		t.Errorf("expected ErrWalletNotFound, got %v", err)
	}
}

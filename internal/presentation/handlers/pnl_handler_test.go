package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/application/services"
	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/entities"
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

func newPnlRouter(walletRepo *testutil.MockWalletRepository, holdingRepo *testutil.MockHoldingRepository, source *testutil.MockTransactionSource) chi.Router {
	svc := services.NewPnlService(walletRepo, holdingRepo, source, nil, testPnlConfig(), zap.NewNop())
	handler := NewPnlHandler(svc, testPnlConfig(), zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetWalletPnl_InvalidAddress(t *testing.T) {
	r := newPnlRouter(testutil.NewMockWalletRepository(), testutil.NewMockHoldingRepository(), testutil.NewMockTransactionSource())

	req := httptest.NewRequest(http.MethodGet, "/wallets/not-base58!/pnl", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestGetWalletPnl_UnknownWallet(t *testing.T) {
	r := newPnlRouter(testutil.NewMockWalletRepository(), testutil.NewMockHoldingRepository(), testutil.NewMockTransactionSource())

	req := httptest.NewRequest(http.MethodGet, "/wallets/"+testutil.TestWallet+"/pnl", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Wallet not found" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestGetWalletPnl_Success(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	holdingRepo := testutil.NewMockHoldingRepository()
	holdingRepo.AddHolding(entities.WalletHolding{
		WalletAddress: testutil.TestWallet,
		TokenMint:     testutil.BonkMint,
		FirstSeen:     time.Now().UTC().Add(-time.Hour),
	})
	source := testutil.NewMockTransactionSource()
	source.SetTransactions(testutil.TestWallet, []entities.RawTransaction{
		testutil.BuyTransaction(testutil.TestWallet, testutil.BonkMint, 100, 10),
		testutil.SellTransaction(testutil.TestWallet, testutil.BonkMint, 40, 6),
	})

	r := newPnlRouter(walletRepo, holdingRepo, source)

	req := httptest.NewRequest(http.MethodGet, "/wallets/"+testutil.TestWallet+"/pnl?days=14", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	var body struct {
		WalletAddress string `json:"wallet_address"`
		WalletName    string `json:"wallet_name"`
		PeriodDays    int    `json:"period_days"`
		RealizedPnl   string `json:"total_realized_pnl"`
		TokenPnls     []struct {
			TokenMint string `json:"token_mint"`
		} `json:"token_pnls"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.WalletAddress != testutil.TestWallet {
		t.Errorf("unexpected wallet: %s", body.WalletAddress)
	}
	if body.WalletName != "alpha-hunter" {
		t.Errorf("unexpected name: %s", body.WalletName)
	}
	if body.PeriodDays != 14 {
		t.Errorf("expected period 14, got %d", body.PeriodDays)
	}
	if body.RealizedPnl != "2" {
		t.Errorf("expected realized pnl 2, got %q", body.RealizedPnl)
	}
	if len(body.TokenPnls) != 1 || body.TokenPnls[0].TokenMint != testutil.BonkMint {
		t.Errorf("unexpected token entries: %+v", body.TokenPnls)
	}
}

func TestGetWalletPnl_DaysOutOfRangeFallsBackToDefault(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	r := newPnlRouter(walletRepo, testutil.NewMockHoldingRepository(), testutil.NewMockTransactionSource())

	for _, days := range []string{"0", "-5", "9001", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/wallets/"+testutil.TestWallet+"/pnl?days="+days, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("days=%s: expected status 200, got %d", days, rec.Code)
		}

		var body struct {
			PeriodDays int `json:"period_days"`
		}
		json.NewDecoder(rec.Body).Decode(&body)
		if body.PeriodDays != 7 {
			t.Errorf("days=%s: expected default period 7, got %d", days, body.PeriodDays)
		}
	}
}

func TestGetAllWalletsPnl(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(testutil.CreateTestWallet())
	walletRepo.AddWallet(testutil.CreateTestWallet(
		testutil.WalletWithID(2),
		testutil.WalletWithAddress(testutil.OtherWallet),
	))

	r := newPnlRouter(walletRepo, testutil.NewMockHoldingRepository(), testutil.NewMockTransactionSource())

	req := httptest.NewRequest(http.MethodGet, "/wallets/pnl", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data []struct {
			WalletAddress string `json:"wallet_address"`
			Error         string `json:"error"`
		} `json:"data"`
		PeriodDays int `json:"period_days"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(body.Data) != 2 {
		t.Errorf("expected 2 entries, got %d", len(body.Data))
	}
	if body.PeriodDays != 7 {
		t.Errorf("expected default period, got %d", body.PeriodDays)
	}
}

func TestIsValidAddress(t *testing.T) {
	cases := []struct {
		addr  string
		valid bool
	}{
		{testutil.TestWallet, true},
		{entities.WrappedSolMint, true},
		{"", false},
		{"0xdac17f958d2ee523a2206206994597c13d831ec7", false},
		{"short", false},
	}

	for _, tc := range cases {
		if got := isValidAddress(tc.addr); got != tc.valid {
			t.Errorf("isValidAddress(%q) = %v, want %v", tc.addr, got, tc.valid)
		}
	}
}

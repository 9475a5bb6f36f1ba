package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/application/services"
	"github.com/solwatch/wallet-pnl/internal/testutil"
)

func newTokenRouter(tokenRepo *testutil.MockTokenRepository, source *testutil.MockMetadataSource) chi.Router {
	svc := services.NewTokenService(tokenRepo, source, nil, zap.NewNop())
	handler := NewTokenHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetTokenEndpoint(t *testing.T) {
	tokenRepo := testutil.NewMockTokenRepository()
	tokenRepo.AddToken(testutil.CreateTestToken())
	r := newTokenRouter(tokenRepo, testutil.NewMockMetadataSource())

	req := httptest.NewRequest(http.MethodGet, "/tokens/"+testutil.BonkMint, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			Mint   string `json:"mint"`
			Symbol string `json:"symbol"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Mint != testutil.BonkMint || body.Data.Symbol != "BONK" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestGetTokenEndpoint_Unknown(t *testing.T) {
	r := newTokenRouter(testutil.NewMockTokenRepository(), testutil.NewMockMetadataSource())

	req := httptest.NewRequest(http.MethodGet, "/tokens/"+testutil.UnknownTestMint, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestGetTokenEndpoint_InvalidMint(t *testing.T) {
	r := newTokenRouter(testutil.NewMockTokenRepository(), testutil.NewMockMetadataSource())

	req := httptest.NewRequest(http.MethodGet, "/tokens/not-a-mint", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

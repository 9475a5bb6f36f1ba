package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/application/services"
	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// WalletHandler handles HTTP requests for registry and holdings endpoints
type WalletHandler struct {
	service *services.WalletService
	config  config.PnlConfig
	logger  *zap.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(service *services.WalletService, cfg config.PnlConfig, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers the wallet routes on a chi router
func (h *WalletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/wallets", h.ListWallets)
	r.Get("/wallets/{address}/holdings", h.GetHoldings)
}

// ListWallets handles GET /api/v1/wallets
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListWallets(r.Context())
	if err != nil {
		h.logger.Error("Failed to list wallets", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list wallets")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetHoldings handles GET /api/v1/wallets/{address}/holdings?days=N
func (h *WalletHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	if !isValidAddress(address) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address format")
		return
	}

	days := h.config.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 && d <= h.config.MaxWindowDays {
			days = d
		}
	}

	response, err := h.service.GetHoldings(r.Context(), address, days)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			respondError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		h.logger.Error("Failed to get holdings",
			zap.Error(err),
			zap.String("address", address),
		)
		respondError(w, http.StatusInternalServerError, "Failed to get holdings")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

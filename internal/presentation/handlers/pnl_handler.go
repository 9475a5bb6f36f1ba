package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/application/services"
	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// PnlHandler handles HTTP requests for PNL report endpoints
type PnlHandler struct {
	service *services.PnlService
	config  config.PnlConfig
	logger  *zap.Logger
}

// NewPnlHandler creates a new PNL handler
func NewPnlHandler(service *services.PnlService, cfg config.PnlConfig, logger *zap.Logger) *PnlHandler {
	return &PnlHandler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers the PNL routes on a chi router
func (h *PnlHandler) RegisterRoutes(r chi.Router) {
	r.Get("/wallets/pnl", h.GetAllWalletsPnl)
	r.Get("/wallets/{address}/pnl", h.GetWalletPnl)
}

// GetWalletPnl handles GET /api/v1/wallets/{address}/pnl?days=N
func (h *PnlHandler) GetWalletPnl(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address := chi.URLParam(r, "address")

	if !isValidAddress(address) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address format")
		return
	}

	days := h.parseDays(r)

	response, err := h.service.ComputeWalletPnl(ctx, address, days)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			respondError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		h.logger.Error("Failed to compute wallet PNL",
			zap.Error(err),
			zap.String("address", address),
			zap.Int("days", days),
		)
		respondError(w, http.StatusInternalServerError, "Failed to compute wallet PNL")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetAllWalletsPnl handles GET /api/v1/wallets/pnl?days=N
func (h *PnlHandler) GetAllWalletsPnl(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	days := h.parseDays(r)

	results, err := h.service.ComputeAllWalletsPnl(ctx, days)
	if err != nil {
		h.logger.Error("Failed to compute all-wallets PNL",
			zap.Error(err),
			zap.Int("days", days),
		)
		respondError(w, http.StatusInternalServerError, "Failed to compute all-wallets PNL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": results, "period_days": days})
}

func (h *PnlHandler) parseDays(r *http.Request) int {
	days := h.config.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 && d <= h.config.MaxWindowDays {
			days = d
		}
	}
	return days
}

// isValidAddress reports whether addr parses as a Solana public key
func isValidAddress(addr string) bool {
	_, err := solana.PublicKeyFromBase58(addr)
	return err == nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

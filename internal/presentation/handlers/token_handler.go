package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solwatch/wallet-pnl/internal/application/services"
)

// TokenHandler handles HTTP requests for token metadata endpoints
type TokenHandler struct {
	service *services.TokenService
	logger  *zap.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(service *services.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the token routes on a chi router
func (h *TokenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tokens/{mint}", h.GetToken)
}

// GetToken handles GET /api/v1/tokens/{mint}
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	mint := chi.URLParam(r, "mint")

	if !isValidAddress(mint) {
		respondError(w, http.StatusBadRequest, "Invalid mint address format")
		return
	}

	response, err := h.service.GetToken(r.Context(), mint)
	if err != nil {
		h.logger.Error("Failed to get token",
			zap.Error(err),
			zap.String("mint", mint),
		)
		respondError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}

	if response == nil {
		respondError(w, http.StatusNotFound, "Token not found")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

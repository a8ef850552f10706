package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/usecase"
)

// ValuationHandler serves asset valuations and collection analytics.
type ValuationHandler struct {
	valuation *usecase.ValuationService
}

func NewValuationHandler(valuation *usecase.ValuationService) *ValuationHandler {
	return &ValuationHandler{valuation: valuation}
}

// GetValuation handles GET /api/valuation?contract=0x..&tokenId=123
func (h *ValuationHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contract := r.URL.Query().Get("contract")
	tokenID := r.URL.Query().Get("tokenId")
	if contract == "" || tokenID == "" {
		http.Error(w, "contract and tokenId are required", http.StatusBadRequest)
		return
	}

	v, err := h.valuation.GetValuation(r.Context(), contract, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// GetAnalytics handles GET /api/analytics?collection=0x..
func (h *ValuationHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	collection := r.URL.Query().Get("collection")
	if collection == "" {
		http.Error(w, "collection is required", http.StatusBadRequest)
		return
	}

	a, err := h.valuation.GetCollectionAnalytics(r.Context(), collection)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

// ClearCache handles POST /api/valuation/clear
func (h *ValuationHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.valuation.ClearCache()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Valuation cache cleared",
	})
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/usecase"
)

// AutomationHandler controls the per-owner automation loop and serves its
// outputs: opportunities, active trades and performance.
type AutomationHandler struct {
	automation  *usecase.AutomationService
	scanner     *usecase.OpportunityScanner
	performance *usecase.PerformanceService
	rules       *usecase.RuleService
	trades      domain.TradeRepository
	opps        domain.OpportunityRepository
}

func NewAutomationHandler(
	automation *usecase.AutomationService,
	scanner *usecase.OpportunityScanner,
	performance *usecase.PerformanceService,
	rules *usecase.RuleService,
	trades domain.TradeRepository,
	opps domain.OpportunityRepository,
) *AutomationHandler {
	return &AutomationHandler{
		automation:  automation,
		scanner:     scanner,
		performance: performance,
		rules:       rules,
		trades:      trades,
		opps:        opps,
	}
}

type StartRequest struct {
	Owner           string `json:"owner"`
	IntervalSeconds int    `json:"intervalSeconds"`
}

// Start handles POST /api/automation/start
func (h *AutomationHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	h.automation.Start(req.Owner, time.Duration(req.IntervalSeconds)*time.Second)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Automation started",
		"owner":   req.Owner,
		"running": true,
	})
}

// Stop handles POST /api/automation/stop
func (h *AutomationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	h.automation.Stop(req.Owner)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Automation stopped",
		"owner":   req.Owner,
		"running": false,
	})
}

// Status handles GET /api/automation/status?owner=0x..
func (h *AutomationHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"owner":   owner,
		"running": h.automation.IsRunning(owner),
	})
}

// GetOpportunities handles GET /api/opportunities?owner=0x..&scan=true
// With scan=true a fresh scan runs before returning; otherwise the cached
// results from the last scan are served.
func (h *AutomationHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	var opps []domain.TradingOpportunity
	if r.URL.Query().Get("scan") == "true" {
		fresh, err := h.scanner.Scan(r.Context(), owner)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		opps = fresh
	} else {
		opps = h.scanner.GetOpportunities(owner)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(opps)
}

// GetActiveTrades handles GET /api/trades/active?owner=0x..
func (h *AutomationHandler) GetActiveTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.performance.GetActiveTrades(owner))
}

// GetPerformance handles GET /api/performance?owner=0x..
func (h *AutomationHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.performance.GetTradingPerformance(owner))
}

// ClearOwnerData handles POST /api/owner/clear?owner=0x..
// Stops automation and drops the owner's rules, trades and cached
// opportunities.
func (h *AutomationHandler) ClearOwnerData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	h.automation.Stop(owner)
	h.rules.ClearOwner(owner)
	h.trades.ClearOwner(owner)
	h.opps.ClearOwner(owner)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Owner data cleared",
		"owner":   owner,
	})
}

package http

import (
	"encoding/json"
	"net/http"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/usecase"
)

// RuleHandler exposes trading-rule CRUD. Every route takes the owner wallet
// as a query parameter; rules are never visible across owners.
type RuleHandler struct {
	rules *usecase.RuleService
}

func NewRuleHandler(rules *usecase.RuleService) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// HandleRules handles GET (list) and POST (create) on /api/rules?owner=0x..
func (h *RuleHandler) HandleRules(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.rules.ListRules(owner))

	case http.MethodPost:
		var rule domain.TradingRule
		if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		created, err := h.rules.CreateRule(owner, rule)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleRule handles GET, PUT and DELETE on /api/rules/rule?owner=0x..&id=..
func (h *RuleHandler) HandleRule(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	id := r.URL.Query().Get("id")
	if owner == "" || id == "" {
		http.Error(w, "owner and id are required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rule, err := h.rules.GetRule(owner, id)
		if err != nil {
			http.Error(w, "Rule not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)

	case http.MethodPut:
		var patch domain.RuleUpdate
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		updated, err := h.rules.UpdateRule(owner, id, patch)
		if err != nil {
			http.Error(w, "Rule not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)

	case http.MethodDelete:
		if err := h.rules.DeleteRule(owner, id); err != nil {
			http.Error(w, "Rule not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Rule deleted successfully",
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

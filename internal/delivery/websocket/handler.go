package websocket

import (
	"log"
	"net/http"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams an owner's opportunities and active trades over one socket.
// The client connects to /ws?owner=0x.. and receives a snapshot immediately,
// then a refreshed one on every poll tick.
type Handler struct {
	opps   domain.OpportunityRepository
	trades domain.TradeRepository
}

func NewHandler(opps domain.OpportunityRepository, trades domain.TradeRepository) *Handler {
	return &Handler{
		opps:   opps,
		trades: trades,
	}
}

type snapshot struct {
	Owner         string                      `json:"owner"`
	Opportunities []domain.TradingOpportunity `json:"opportunities"`
	ActiveTrades  []*domain.AutomatedTrade    `json:"activeTrades"`
	At            time.Time                   `json:"at"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Printf("New client connected for %s", owner)

	if err := conn.WriteJSON(h.snapshot(owner)); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(h.snapshot(owner)); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}

func (h *Handler) snapshot(owner string) snapshot {
	return snapshot{
		Owner:         owner,
		Opportunities: h.opps.GetByOwner(owner),
		ActiveTrades:  h.trades.ActiveByOwner(owner),
		At:            time.Now(),
	}
}

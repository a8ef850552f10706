// Package marketplace contains execution backends for automated trades.
package marketplace

import (
	"context"
	"log"

	"nfttrader-backend/internal/domain"

	"github.com/google/uuid"
)

// PaperExecutor simulates order submission. Every request succeeds and gets a
// synthetic transaction reference, so the whole rule/trade pipeline can run
// end to end without touching a real marketplace. Swap in a live executor
// behind the same interface to go from paper to production.
type PaperExecutor struct{}

func NewPaperExecutor() *PaperExecutor {
	return &PaperExecutor{}
}

func (e *PaperExecutor) SubmitBuy(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return e.submit("buy", req)
}

func (e *PaperExecutor) SubmitSell(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return e.submit("sell", req)
}

func (e *PaperExecutor) SubmitListing(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return e.submit("list", req)
}

func (e *PaperExecutor) submit(kind string, req domain.ExecutionRequest) (string, error) {
	txRef := "paper-" + uuid.NewString()
	log.Printf("paper %s: %s #%s at %.4f (%s) -> %s", kind, req.Contract, req.TokenID, req.Price, req.Marketplace, txRef)
	return txRef, nil
}

var _ domain.MarketplaceExecutor = (*PaperExecutor)(nil)

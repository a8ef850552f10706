package opensea

import (
	"context"
	"fmt"
	"time"

	"nfttrader-backend/internal/domain"
)

type accountNFTsResponse struct {
	NFTs []struct {
		Identifier string `json:"identifier"`
		Contract   string `json:"contract"`
		Collection string `json:"collection"`
		UpdatedAt  string `json:"updated_at"`
	} `json:"nfts"`
	Next string `json:"next"`
}

// GetPositions returns the owner's NFT holdings. Acquisition price comes from
// the most recent sale event per asset; assets with no recorded sale show up
// with a zero acquisition price rather than being dropped.
func (c *Client) GetPositions(ctx context.Context, owner string) ([]domain.Position, error) {
	var out accountNFTsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetQueryParam("limit", "50").
		Get(fmt.Sprintf("/chain/ethereum/account/%s/nfts", owner))
	if err != nil {
		return nil, fmt.Errorf("fetch account nfts: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch account nfts: status %d", resp.StatusCode())
	}

	positions := make([]domain.Position, 0, len(out.NFTs))
	for _, nft := range out.NFTs {
		pos := domain.Position{
			Owner:    owner,
			Contract: nft.Contract,
			TokenID:  nft.Identifier,
		}
		if sales, err := c.GetAssetTrades(ctx, nft.Contract, nft.Identifier); err == nil && len(sales) > 0 {
			pos.AcquisitionPrice = sales[0].Price
			pos.AcquiredAt = sales[0].Timestamp
		}
		if pos.AcquiredAt.IsZero() {
			if ts, err := time.Parse(time.RFC3339, nft.UpdatedAt); err == nil {
				pos.AcquiredAt = ts
			}
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// GetPortfolioSummary values every position at its collection floor.
func (c *Client) GetPortfolioSummary(ctx context.Context, owner string) (*domain.PortfolioSummary, error) {
	positions, err := c.GetPositions(ctx, owner)
	if err != nil {
		return nil, err
	}

	summary := &domain.PortfolioSummary{Owner: owner, PositionCount: len(positions)}

	// One floor lookup per distinct collection.
	floors := make(map[string]float64)
	for _, pos := range positions {
		floor, ok := floors[pos.Contract]
		if !ok {
			floor, _ = c.GetFloorPrice(ctx, pos.Contract)
			floors[pos.Contract] = floor
		}
		summary.TotalValue += floor
	}
	return summary, nil
}

var _ domain.PortfolioProvider = (*Client)(nil)

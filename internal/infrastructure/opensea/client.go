package opensea

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.opensea.io/api/v2"

// Client is a reference MarketDataProvider / MarketTrendsProvider over an
// OpenSea-compatible REST API. The engine only sees the domain interfaces, so
// deployments can swap this for any other source.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(3).
		SetTimeout(15 * time.Second)
	if apiKey != "" {
		c.SetHeader("X-API-KEY", apiKey)
	}
	return &Client{http: c}
}

type collectionStatsResponse struct {
	Total struct {
		FloorPrice float64 `json:"floor_price"`
		MarketCap  float64 `json:"market_cap"`
		NumOwners  int     `json:"num_owners"`
		Volume     float64 `json:"volume"`
	} `json:"total"`
	Intervals []struct {
		Interval    string  `json:"interval"`
		Volume      float64 `json:"volume"`
		FloorPrice  float64 `json:"floor_price"`
		PriceChange float64 `json:"price_change"`
	} `json:"intervals"`
}

type collectionResponse struct {
	Collection     string `json:"collection"`
	Name           string `json:"name"`
	TotalSupply    int    `json:"total_supply"`
	SafelistStatus string `json:"safelist_status"`
	ProjectURL     string `json:"project_url"`
	TwitterUser    string `json:"twitter_username"`
	DiscordURL     string `json:"discord_url"`
}

type listingsResponse struct {
	Listings []struct {
		OrderHash string `json:"order_hash"`
		Price     struct {
			Current struct {
				Value    float64 `json:"value"`
				Decimals int     `json:"decimals"`
			} `json:"current"`
		} `json:"price"`
		ProtocolData struct {
			Parameters struct {
				Offerer string `json:"offerer"`
				Offer   []struct {
					Token                string `json:"token"`
					IdentifierOrCriteria string `json:"identifierOrCriteria"`
				} `json:"offer"`
				StartTime string `json:"startTime"`
			} `json:"parameters"`
		} `json:"protocol_data"`
		Marketplace string `json:"marketplace"`
	} `json:"listings"`
}

type eventsResponse struct {
	AssetEvents []struct {
		EventType string `json:"event_type"`
		Payment   struct {
			Quantity float64 `json:"quantity"`
		} `json:"payment"`
		NFT struct {
			Contract   string `json:"contract"`
			Identifier string `json:"identifier"`
		} `json:"nft"`
		Buyer     string `json:"buyer"`
		Seller    string `json:"seller"`
		EventTime int64  `json:"event_timestamp"`
	} `json:"asset_events"`
}

type assetResponse struct {
	NFT struct {
		Contract   string `json:"contract"`
		Identifier string `json:"identifier"`
		Name       string `json:"name"`
		Rarity     *struct {
			Rank    int     `json:"rank"`
			Score   float64 `json:"score"`
			MaxRank int     `json:"max_rank"`
		} `json:"rarity"`
		Traits []struct {
			TraitType string `json:"trait_type"`
			Value     string `json:"value"`
		} `json:"traits"`
	} `json:"nft"`
}

// GetFloorPrice returns the collection floor from the stats endpoint.
func (c *Client) GetFloorPrice(ctx context.Context, collection string) (float64, error) {
	var out collectionStatsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/collections/%s/stats", collection))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() == 404 {
		return 0, domain.ErrAssetNotFound
	}
	if resp.IsError() {
		return 0, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}
	return out.Total.FloorPrice, nil
}

// GetAssetListings returns live listings. With an empty tokenID the whole
// collection's listings come back, which is what the arbitrage scan wants.
func (c *Client) GetAssetListings(ctx context.Context, contract, tokenID string) ([]domain.Listing, error) {
	url := fmt.Sprintf("/listings/collection/%s/all", contract)
	if tokenID != "" {
		url = fmt.Sprintf("/listings/collection/%s/nfts/%s/best", contract, tokenID)
	}

	var out listingsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}

	listings := make([]domain.Listing, 0, len(out.Listings))
	for _, l := range out.Listings {
		token := tokenID
		if len(l.ProtocolData.Parameters.Offer) > 0 {
			token = l.ProtocolData.Parameters.Offer[0].IdentifierOrCriteria
		}
		price := l.Price.Current.Value
		if l.Price.Current.Decimals > 0 {
			for i := 0; i < l.Price.Current.Decimals; i++ {
				price /= 10
			}
		}
		marketplace := l.Marketplace
		if marketplace == "" {
			marketplace = "opensea"
		}
		listings = append(listings, domain.Listing{
			Contract:    contract,
			TokenID:     token,
			Price:       price,
			Marketplace: marketplace,
			Seller:      l.ProtocolData.Parameters.Offerer,
		})
	}
	return listings, nil
}

// GetAssetTrades returns sale events for one token, most recent first.
func (c *Client) GetAssetTrades(ctx context.Context, contract, tokenID string) ([]domain.Sale, error) {
	var out eventsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetQueryParam("event_type", "sale").
		Get(fmt.Sprintf("/events/chain/ethereum/contract/%s/nfts/%s", contract, tokenID))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, domain.ErrAssetNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}

	sales := make([]domain.Sale, 0, len(out.AssetEvents))
	for _, ev := range out.AssetEvents {
		if ev.EventType != "sale" {
			continue
		}
		sales = append(sales, domain.Sale{
			Contract:  contract,
			TokenID:   tokenID,
			Price:     ev.Payment.Quantity,
			Buyer:     ev.Buyer,
			Seller:    ev.Seller,
			Timestamp: time.Unix(ev.EventTime, 0).UTC(),
		})
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Timestamp.After(sales[j].Timestamp) })
	return sales, nil
}

// GetCollectionStats merges the stats and collection endpoints into one view.
func (c *Client) GetCollectionStats(ctx context.Context, collection string) (*domain.CollectionStats, error) {
	var statsOut collectionStatsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&statsOut).
		Get(fmt.Sprintf("/collections/%s/stats", collection))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, domain.ErrAssetNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}

	stats := &domain.CollectionStats{
		Collection:  collection,
		FloorPrice:  statsOut.Total.FloorPrice,
		MarketCap:   statsOut.Total.MarketCap,
		HolderCount: statsOut.Total.NumOwners,
	}
	for _, iv := range statsOut.Intervals {
		switch iv.Interval {
		case "one_day":
			stats.Volume24h = iv.Volume
			stats.FloorChange24h = iv.PriceChange
		case "seven_day":
			stats.Volume7d = iv.Volume
			stats.FloorChange7d = iv.PriceChange
		case "thirty_day":
			stats.Volume30d = iv.Volume
			stats.FloorChange30d = iv.PriceChange
		}
	}

	var colOut collectionResponse
	resp, err = c.http.R().
		SetContext(ctx).
		SetResult(&colOut).
		Get(fmt.Sprintf("/collections/%s", collection))
	if err == nil && !resp.IsError() {
		stats.TotalSupply = colOut.TotalSupply
		stats.Verified = colOut.SafelistStatus == "verified"
		stats.HasWebsite = colOut.ProjectURL != ""
		stats.HasTwitter = colOut.TwitterUser != ""
		stats.HasDiscord = colOut.DiscordURL != ""
	}

	return stats, nil
}

// GetAssetMetadata returns rarity and traits for one token. Rarity rank is
// normalized into [0,1] against the collection size (rank 1 -> 1.0).
func (c *Client) GetAssetMetadata(ctx context.Context, contract, tokenID string) (*domain.AssetMetadata, error) {
	var out assetResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/chain/ethereum/contract/%s/nfts/%s", contract, tokenID))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, domain.ErrAssetNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}

	meta := &domain.AssetMetadata{
		Contract: contract,
		TokenID:  tokenID,
		Name:     out.NFT.Name,
	}
	if len(out.NFT.Traits) > 0 {
		meta.Traits = make(map[string]string, len(out.NFT.Traits))
		for _, tr := range out.NFT.Traits {
			meta.Traits[tr.TraitType] = tr.Value
		}
	}
	if r := out.NFT.Rarity; r != nil && r.MaxRank > 0 && r.Rank > 0 {
		normalized := 1 - float64(r.Rank-1)/float64(r.MaxRank)
		meta.Rarity = &normalized
	}
	return meta, nil
}

type trendingResponse struct {
	Collections []struct {
		Collection   string  `json:"collection"`
		Name         string  `json:"name"`
		FloorPrice   float64 `json:"floor_price"`
		OneDayChange float64 `json:"one_day_change"`
		OneDayVolume float64 `json:"one_day_volume"`
	} `json:"collections"`
}

func (c *Client) topCollections(ctx context.Context, limit int, ascending bool) ([]domain.CollectionTrend, error) {
	var out trendingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetQueryParam("order_by", "one_day_change").
		Get("/collections")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace API error: %d", resp.StatusCode())
	}

	trends := make([]domain.CollectionTrend, 0, len(out.Collections))
	for _, col := range out.Collections {
		trends = append(trends, domain.CollectionTrend{
			Collection:    col.Collection,
			Name:          col.Name,
			FloorPrice:    col.FloorPrice,
			ChangePercent: col.OneDayChange,
			Volume24h:     col.OneDayVolume,
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if ascending {
			return trends[i].ChangePercent < trends[j].ChangePercent
		}
		return trends[i].ChangePercent > trends[j].ChangePercent
	})
	if len(trends) > limit {
		trends = trends[:limit]
	}
	return trends, nil
}

// GetTopGainers returns the collections with the largest 24h floor gains.
func (c *Client) GetTopGainers(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
	return c.topCollections(ctx, limit, false)
}

// GetTopLosers returns the collections with the largest 24h floor declines.
func (c *Client) GetTopLosers(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
	return c.topCollections(ctx, limit, true)
}

var (
	_ domain.MarketDataProvider   = (*Client)(nil)
	_ domain.MarketTrendsProvider = (*Client)(nil)
)

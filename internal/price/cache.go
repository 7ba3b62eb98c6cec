package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/logger"
)

// Coin is one market entry as returned by the price API.
type Coin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	High24h                  float64 `json:"high_24h"`
	Low24h                   float64 `json:"low_24h"`
	PriceChange24h           float64 `json:"price_change_24h"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	CirculatingSupply        float64 `json:"circulating_supply"`
	TotalSupply              float64 `json:"total_supply"`
	MaxSupply                float64 `json:"max_supply"`
	ATH                      float64 `json:"ath"`
	ATL                      float64 `json:"atl"`
	LastUpdated              string  `json:"last_updated"`
}

// SimplePrice is the trimmed view served to the chat prompt.
type SimplePrice struct {
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
}

// Fetcher retrieves fresh market data from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Coin, error)
}

// Cache serves market data with at most one outbound fetch per TTL window,
// persisting results to a JSON file keyed by modification time. The file is
// read and written without locking; racing refreshes are benign.
type Cache struct {
	file    string
	ttl     time.Duration
	fetcher Fetcher
}

// NewCache builds a cache backed by the configured price API.
func NewCache(cfg config.PriceConfig) *Cache {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		file:    cfg.CacheFile,
		ttl:     ttl,
		fetcher: newGeckoFetcher(cfg),
	}
}

// NewCacheWithFetcher builds a cache over a custom fetcher.
func NewCacheWithFetcher(file string, ttl time.Duration, fetcher Fetcher) *Cache {
	return &Cache{file: file, ttl: ttl, fetcher: fetcher}
}

// Detailed returns the full market list, from cache when fresh. When the
// upstream fetch fails and a stale cache file exists, the stale data is
// served instead of propagating the error.
func (c *Cache) Detailed(ctx context.Context) ([]Coin, error) {
	if c.fresh() {
		if coins, err := c.read(); err == nil {
			return coins, nil
		}
	}

	coins, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if stale, rerr := c.read(); rerr == nil {
			logger.Warn("Price fetch failed, serving stale cache: %v", err)
			return stale, nil
		}
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	if err := c.write(coins); err != nil {
		logger.Error("Failed to write price cache: %v", err)
	}
	return coins, nil
}

// Simple returns name/symbol/price triples, from the same cache.
func (c *Cache) Simple(ctx context.Context) ([]SimplePrice, error) {
	coins, err := c.Detailed(ctx)
	if err != nil {
		return nil, err
	}

	simple := make([]SimplePrice, 0, len(coins))
	for _, coin := range coins {
		simple = append(simple, SimplePrice{
			Name:         coin.Name,
			Symbol:       coin.Symbol,
			CurrentPrice: coin.CurrentPrice,
		})
	}
	return simple, nil
}

// Refresh forces an upstream fetch and rewrites the cache file.
func (c *Cache) Refresh(ctx context.Context) error {
	coins, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh prices: %w", err)
	}
	return c.write(coins)
}

func (c *Cache) fresh() bool {
	info, err := os.Stat(c.file)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.ttl
}

func (c *Cache) read() ([]Coin, error) {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return nil, err
	}
	var coins []Coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

func (c *Cache) write(coins []Coin) error {
	data, err := json.MarshalIndent(coins, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.file, data, 0o644)
}

// geckoFetcher pulls the markets listing from a CoinGecko-compatible API.
type geckoFetcher struct {
	baseURL  string
	currency string
	apiKey   string
	client   *http.Client
}

func newGeckoFetcher(cfg config.PriceConfig) *geckoFetcher {
	currency := cfg.Currency
	if currency == "" {
		currency = "inr"
	}
	return &geckoFetcher{
		baseURL:  cfg.BaseURL,
		currency: currency,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *geckoFetcher) Fetch(ctx context.Context) ([]Coin, error) {
	url := fmt.Sprintf("%s/coins/markets?vs_currency=%s", f.baseURL, f.currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	var coins []Coin
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}
	return coins, nil
}

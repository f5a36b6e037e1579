// Package coingecko contains a client for the CoinGecko endpoints used to build auxiliary token lists.
// The API is documented here: https://docs.coingecko.com/
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	lru "github.com/hashicorp/golang-lru"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	proAPIBaseURL = "https://pro-api.coingecko.com/api/v3"
	tokensBaseURL = "https://tokens.coingecko.com"

	// APIKeyHeader carries the pro API key.
	APIKeyHeader = "X-Cg-Pro-Api-Key"

	// VSCurrency is the currency market data is quoted in.
	VSCurrency = "usd"

	// MarketsChunkSize is the number of coin ids per /coins/markets request.
	MarketsChunkSize = 250

	// DefaultRequestsPerSecond limits the request rate of a client.
	DefaultRequestsPerSecond = 2

	tokenListCacheSize = 16
)

// Coin is an entry of /coins/list with its contract address per platform.
type Coin struct {
	ID        string
	Platforms map[string]string
}

// MarketData is an entry of /coins/markets.
type MarketData struct {
	ID          string  `json:"id"`
	Symbol      string  `json:"symbol"`
	TotalVolume float64 `json:"total_volume"`
}

// Client queries CoinGecko. Per-platform token lists are cached for the lifetime of the client and
// concurrent ID map builds share a single request.
type Client struct {
	fetcher       *common.Fetcher
	logger        *zap.Logger
	apiBaseURL    string
	tokensBaseURL string

	lists *lru.Cache
	group singleflight.Group
}

type Option func(*clientOptions)

type clientOptions struct {
	apiBaseURL    string
	tokensBaseURL string
	rps           float64
	fetcherOpts   []common.FetcherOption
}

// WithBaseURLs replaces the API and token list hosts.
func WithBaseURLs(api, tokens string) Option {
	return func(o *clientOptions) {
		o.apiBaseURL = strings.TrimRight(api, "/")
		o.tokensBaseURL = strings.TrimRight(tokens, "/")
	}
}

// WithRequestsPerSecond sets the client side rate limit. Zero disables it.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *clientOptions) {
		o.rps = rps
	}
}

// WithFetcherOptions passes options to the underlying fetcher.
func WithFetcherOptions(opts ...common.FetcherOption) Option {
	return func(o *clientOptions) {
		o.fetcherOpts = append(o.fetcherOpts, opts...)
	}
}

// NewClient creates a CoinGecko client. The apiKey is optional.
func NewClient(apiKey string, logger *zap.Logger, opts ...Option) *Client {
	o := &clientOptions{
		apiBaseURL:    proAPIBaseURL,
		tokensBaseURL: tokensBaseURL,
		rps:           DefaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	fetcherOpts := []common.FetcherOption{}
	if apiKey != "" {
		fetcherOpts = append(fetcherOpts, common.WithHeader(APIKeyHeader, apiKey))
	}
	if o.rps > 0 {
		fetcherOpts = append(fetcherOpts, common.WithRateLimit(o.rps, 1))
	}
	fetcherOpts = append(fetcherOpts, o.fetcherOpts...)

	// only errors on a non-positive size
	lists, _ := lru.New(tokenListCacheSize)

	logger = logger.With(zap.String("component", "coingecko"))
	return &Client{
		fetcher:       common.NewFetcher(logger, fetcherOpts...),
		logger:        logger,
		apiBaseURL:    o.apiBaseURL,
		tokensBaseURL: o.tokensBaseURL,
		lists:         lists,
	}
}

// CoinsList returns every active coin with its platform addresses.
func (c *Client) CoinsList(ctx context.Context) ([]Coin, error) {
	data, err := c.fetcher.Get(ctx, c.apiBaseURL+"/coins/list?include_platform=true&status=active")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coins list: %w", err)
	}
	return parseCoinsList(data)
}

func parseCoinsList(data []byte) ([]Coin, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("coins list is not valid json")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("coins list is not an array")
	}

	coins := make([]Coin, 0, len(parsed.Array()))
	parsed.ForEach(func(_, coin gjson.Result) bool {
		id := coin.Get("id").String()
		if id == "" {
			return true
		}
		platforms := make(map[string]string)
		coin.Get("platforms").ForEach(func(platform, address gjson.Result) bool {
			if a := address.String(); a != "" {
				platforms[platform.String()] = a
			}
			return true
		})
		coins = append(coins, Coin{ID: id, Platforms: platforms})
		return true
	})
	return coins, nil
}

// TokenList returns the CoinGecko token list of a chain. Lists are cached per platform.
func (c *Client) TokenList(ctx context.Context, chainID common.ChainID) ([]tokenlist.TokenRecord, error) {
	platform := GetPlatform(chainID)
	if platform == "" {
		return nil, fmt.Errorf("chain %s is not supported by CoinGecko", chainID)
	}

	if cached, ok := c.lists.Get(platform); ok {
		return cached.([]tokenlist.TokenRecord), nil
	}

	data, err := c.fetcher.Get(ctx, fmt.Sprintf("%s/%s/all.json", c.tokensBaseURL, platform))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token list of %s: %w", platform, err)
	}
	list, err := tokenlist.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("token list of %s: %w", platform, err)
	}
	for i := range list.Tokens {
		list.Tokens[i].Address = common.NormalizeAddress(list.Tokens[i].Address)
	}

	c.lists.Add(platform, list.Tokens)
	c.logger.Debug("fetched token list",
		zap.String("platform", platform),
		zap.Int("tokens", len(list.Tokens)))
	return list.Tokens, nil
}

// Markets returns market data of the given coin ids, requested in chunks of MarketsChunkSize.
func (c *Client) Markets(ctx context.Context, ids []string) ([]MarketData, error) {
	var out []MarketData
	for start := 0; start < len(ids); start += MarketsChunkSize {
		end := start + MarketsChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		query := fmt.Sprintf("%s/coins/markets?vs_currency=%s&per_page=%d&ids=%s",
			c.apiBaseURL, VSCurrency, MarketsChunkSize, url.QueryEscape(strings.Join(ids[start:end], ",")))
		data, err := c.fetcher.Get(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch markets: %w", err)
		}

		var chunk []MarketData
		if err := json.Unmarshal(data, &chunk); err != nil {
			return nil, fmt.Errorf("failed to unmarshal markets: %w", err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// BuildIDMap fetches the coins list and indexes it for the supported platforms. Concurrent callers
// share one request.
func (c *Client) BuildIDMap(ctx context.Context) (*IDMap, error) {
	v, err, shared := c.group.Do("idmap", func() (interface{}, error) {
		coins, err := c.CoinsList(ctx)
		if err != nil {
			return nil, err
		}
		return NewIDMap(coins, Platforms()), nil
	})
	if err != nil {
		return nil, err
	}

	m := v.(*IDMap)
	c.logger.Info("built coingecko id map",
		zap.Bool("shared", shared),
		zap.Int("platforms", len(m.byPlatform)))
	return m, nil
}

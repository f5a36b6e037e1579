package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const coinsListJSON = `[
  {"id": "usd-coin", "symbol": "usdc", "name": "USDC", "platforms": {
    "ethereum": "0xA0b86991c6218b36c1d19d4a2e9eb0ce3606eB48",
    "xdai": "0xddafbb505ad214d7b80b1f830fccc89b60fb7a83",
    "arbitrum-one": "0xaf88d065e77c8cc2239327c5edb3a432268e5831",
    "solana": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
  }},
  {"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "platforms": {}},
  {"id": "empty-platform", "symbol": "x", "name": "X", "platforms": {"ethereum": ""}},
  {"symbol": "noid", "name": "No id"}
]`

const xdaiListJSON = `{
  "name": "CoinGecko",
  "tokens": [
    {"chainId": 100, "address": "0xDDAfbb505ad214D7b80b1f830fcCc89B60fb7A83", "name": "USD Coin", "symbol": "USDC", "decimals": 6, "logoURI": "https://assets.coingecko.com/coins/images/6319/thumb/usdc.png"}
  ]
}`

type fakeAPI struct {
	server   *httptest.Server
	requests sync.Map // path -> *int32
	apiKeys  sync.Map // header value -> struct{}
	markets  [][]string
	mu       sync.Mutex
}

func newFakeAPI(t *testing.T) *fakeAPI {
	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := api.requests.LoadOrStore(r.URL.Path, new(int32))
		atomic.AddInt32(n.(*int32), 1)
		if key := r.Header.Get(APIKeyHeader); key != "" {
			api.apiKeys.Store(key, struct{}{})
		}

		switch r.URL.Path {
		case "/api/coins/list":
			assert.Equal(t, "true", r.URL.Query().Get("include_platform"))
			_, _ = w.Write([]byte(coinsListJSON))
		case "/api/coins/markets":
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			api.mu.Lock()
			api.markets = append(api.markets, ids)
			api.mu.Unlock()
			out := make([]MarketData, 0, len(ids))
			for i, id := range ids {
				out = append(out, MarketData{ID: id, TotalVolume: float64(i + 1)})
			}
			_ = json.NewEncoder(w).Encode(out)
		case "/tokens/xdai/all.json":
			_, _ = w.Write([]byte(xdaiListJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) count(path string) int32 {
	n, ok := a.requests.Load(path)
	if !ok {
		return 0
	}
	return atomic.LoadInt32(n.(*int32))
}

func (a *fakeAPI) client(apiKey string) *Client {
	return NewClient(apiKey, zap.NewNop(),
		WithBaseURLs(a.server.URL+"/api", a.server.URL+"/tokens"),
		WithRequestsPerSecond(0),
		WithFetcherOptions(common.WithRetries(0)))
}

func TestCoinsList(t *testing.T) {
	api := newFakeAPI(t)
	coins, err := api.client("secret").CoinsList(context.Background())
	require.NoError(t, err)

	require.Len(t, coins, 3)
	assert.Equal(t, "usd-coin", coins[0].ID)
	assert.Equal(t, "0xA0b86991c6218b36c1d19d4a2e9eb0ce3606eB48", coins[0].Platforms["ethereum"])
	assert.Empty(t, coins[1].Platforms)
	assert.Empty(t, coins[2].Platforms)

	_, ok := api.apiKeys.Load("secret")
	assert.True(t, ok)
}

func TestParseCoinsListInvalid(t *testing.T) {
	_, err := parseCoinsList([]byte(`{"error": "unauthorized"}`))
	require.Error(t, err)

	_, err = parseCoinsList([]byte(`[{"id": `))
	require.Error(t, err)
}

func TestTokenListIsCached(t *testing.T) {
	api := newFakeAPI(t)
	client := api.client("")

	for i := 0; i < 3; i++ {
		tokens, err := client.TokenList(context.Background(), common.ChainIDGnosisChain)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.Equal(t, "0xddafbb505ad214d7b80b1f830fccc89b60fb7a83", tokens[0].Address)
	}
	assert.Equal(t, int32(1), api.count("/tokens/xdai/all.json"))

	_, err := client.TokenList(context.Background(), common.ChainIDSepolia)
	require.Error(t, err)

	_, err = client.TokenList(context.Background(), common.ChainIDBase)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrHTTPStatus)
}

func TestMarketsChunks(t *testing.T) {
	api := newFakeAPI(t)

	ids := make([]string, 300)
	for i := range ids {
		ids[i] = fmt.Sprintf("coin-%d", i)
	}

	markets, err := api.client("").Markets(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, markets, 300)
	assert.Equal(t, "coin-0", markets[0].ID)
	assert.Equal(t, "coin-299", markets[299].ID)

	require.Len(t, api.markets, 2)
	assert.Len(t, api.markets[0], MarketsChunkSize)
	assert.Len(t, api.markets[1], 50)

	none, err := api.client("").Markets(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBuildIDMap(t *testing.T) {
	api := newFakeAPI(t)
	client := api.client("")

	var wg sync.WaitGroup
	maps := make([]*IDMap, 4)
	for i := range maps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := client.BuildIDMap(context.Background())
			assert.NoError(t, err)
			maps[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range maps {
		require.NotNil(t, m)
		id, ok := m.ID(common.ChainIDMainnet, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
		require.True(t, ok)
		assert.Equal(t, "usd-coin", id)

		addr, ok := m.Address(common.ChainIDGnosisChain, "usd-coin")
		require.True(t, ok)
		assert.Equal(t, "0xddafbb505ad214d7b80b1f830fccc89b60fb7a83", addr)
	}
	assert.LessOrEqual(t, api.count("/api/coins/list"), int32(len(maps)))
}

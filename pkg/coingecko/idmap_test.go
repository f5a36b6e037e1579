package coingecko

import (
	"testing"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/stretchr/testify/assert"
)

func TestIDMap(t *testing.T) {
	coins := []Coin{
		{ID: "usd-coin", Platforms: map[string]string{
			"ethereum": "0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48",
			"base":     "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
			"solana":   "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		}},
		{ID: "weth", Platforms: map[string]string{"ethereum": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"}},
	}
	m := NewIDMap(coins, Platforms())

	id, ok := m.ID(common.ChainIDMainnet, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	assert.True(t, ok)
	assert.Equal(t, "usd-coin", id)

	addr, ok := m.Address(common.ChainIDBase, "usd-coin")
	assert.True(t, ok)
	assert.Equal(t, "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", addr)

	_, ok = m.Address(common.ChainIDBase, "weth")
	assert.False(t, ok)

	_, ok = m.ID(common.ChainIDSepolia, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	assert.False(t, ok)

	assert.Equal(t, 2, m.Len(common.ChainIDMainnet))
	assert.Equal(t, 1, m.Len(common.ChainIDBase))
	assert.Equal(t, 0, m.Len(common.ChainIDPolygon))
}

func TestChainMapping(t *testing.T) {
	assert.Equal(t, "xdai", GetPlatform(common.ChainIDGnosisChain))
	assert.Equal(t, "arbitrum-one", GetPlatform(common.ChainIDArbitrumOne))
	assert.Equal(t, "", GetPlatform(common.ChainIDSepolia))
	assert.False(t, IsPlatformSupported(common.ChainIDSepolia))

	assert.Equal(t, []string{"ethereum", "xdai", "polygon-pos", "base", "arbitrum-one", "avalanche"}, Platforms())
	assert.Len(t, Chains(), 6)

	m := GetChainMapping()
	m[common.ChainIDSepolia] = "sepolia"
	assert.False(t, IsPlatformSupported(common.ChainIDSepolia))

	assert.Equal(t, "https://www.coingecko.com/en/coins/usd-coin", FormatTokenURL("usd-coin"))
}

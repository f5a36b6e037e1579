package bridge

import (
	"path/filepath"
	"testing"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	require.Equal(t, []common.ChainID{common.ChainIDGnosisChain, common.ChainIDArbitrumOne}, PresetChains())

	for _, chain := range PresetChains() {
		preset, ok := PresetFor(chain)
		require.True(t, ok)

		params := preset.Params("uniswap", t.TempDir())
		cfg, err := params.validate()
		require.NoError(t, err, chain.String())
		assert.Equal(t, chain, cfg.chainID)
		assert.Equal(t, common.ChainIDMainnet, cfg.origin)
		assert.Equal(t, UniswapListURL, params.TokenListSource)
	}

	_, ok := PresetFor(common.ChainIDPolygon)
	assert.False(t, ok)
}

func TestArbitrumPreset(t *testing.T) {
	preset, ok := PresetFor(common.ChainIDArbitrumOne)
	require.True(t, ok)

	params := preset.Params("coingecko", "/tmp/lists")
	assert.Equal(t, filepath.Join("/tmp/lists", "ArbitrumOneCoingeckoTokensList.json"), params.OutputFilePath)
	assert.Equal(t, CoinGeckoListURL, params.TokenListSource)
	require.NotNil(t, params.TokenFilter)
	assert.True(t, params.TokenFilter(tokenlist.TokenRecord{Symbol: "cbETH"}))
	assert.False(t, params.TokenFilter(tokenlist.TokenRecord{Symbol: "CBETH"}))
	assert.False(t, params.TokenFilter(tokenlist.TokenRecord{Symbol: "DAI"}))

	usdc := params.TokensToReplace["0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"]
	require.NotNil(t, usdc)
	assert.Equal(t, "0xaf88d065e77c8cc2239327c5edb3a432268e5831", common.AddressString(*usdc))
	assert.Len(t, params.TokensToReplace, 12)
}

func TestGnosisPreset(t *testing.T) {
	preset, ok := PresetFor(common.ChainIDGnosisChain)
	require.True(t, ok)

	params := preset.Params("/data/list.json", "out")
	assert.Equal(t, "/data/list.json", params.TokenListSource)
	assert.Equal(t, filepath.Join("out", "GnosisCustomTokensList.json"), params.OutputFilePath)
	assert.Nil(t, params.TokenFilter)
	assert.Empty(t, params.TokensToReplace)
}

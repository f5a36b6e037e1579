package coingecko

import (
	"fmt"

	"github.com/cowprotocol/token-lists/pkg/common"
)

// chainToPlatformMap maps supported chains to CoinGecko platform IDs. Chains without a
// CoinGecko platform, such as Sepolia, are absent.
var chainToPlatformMap = map[common.ChainID]string{
	common.ChainIDMainnet:     "ethereum",
	common.ChainIDGnosisChain: "xdai",
	common.ChainIDBase:        "base",
	common.ChainIDArbitrumOne: "arbitrum-one",
	common.ChainIDPolygon:     "polygon-pos",
	common.ChainIDAvalanche:   "avalanche",
}

// GetChainMapping returns a copy of the chain to platform mapping.
func GetChainMapping() map[common.ChainID]string {
	result := make(map[common.ChainID]string, len(chainToPlatformMap))
	for k, v := range chainToPlatformMap {
		result[k] = v
	}
	return result
}

// GetPlatform returns the CoinGecko platform ID of a chain, or an empty string.
func GetPlatform(chainID common.ChainID) string {
	return chainToPlatformMap[chainID]
}

// IsPlatformSupported reports whether the chain has a CoinGecko platform.
func IsPlatformSupported(chainID common.ChainID) bool {
	_, exists := chainToPlatformMap[chainID]
	return exists
}

// Platforms returns the platform IDs of all supported chains, in chain order.
func Platforms() []string {
	var out []string
	for _, c := range common.SupportedChains() {
		if p := GetPlatform(c); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chains returns the supported chains that have a CoinGecko platform, in chain order.
func Chains() []common.ChainID {
	var out []common.ChainID
	for _, c := range common.SupportedChains() {
		if IsPlatformSupported(c) {
			out = append(out, c)
		}
	}
	return out
}

// FormatTokenURL returns the CoinGecko page of a coin.
func FormatTokenURL(coinID string) string {
	return fmt.Sprintf("https://www.coingecko.com/en/coins/%s", coinID)
}

package bridge

import (
	"fmt"
	"path/filepath"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	ethCommon "github.com/ethereum/go-ethereum/common"
)

const (
	// CoinGeckoListURL is the CoinGecko token list of mainnet.
	CoinGeckoListURL = "https://tokens.coingecko.com/uniswap/all.json"
	// UniswapListURL is the default Uniswap token list.
	UniswapListURL = "https://gateway.ipfs.io/ipns/tokens.uniswap.org"
)

const omnibridgeABI = `[{
  "inputs": [{"internalType": "address", "name": "_nativeToken", "type": "address"}],
  "name": "bridgedTokenAddress",
  "outputs": [{"internalType": "address", "name": "", "type": "address"}],
  "stateMutability": "view",
  "type": "function"
}]`

const arbitrumGatewayABI = `[{
  "inputs": [{"internalType": "address", "name": "l1ERC20", "type": "address"}],
  "name": "calculateL2TokenAddress",
  "outputs": [{"internalType": "address", "name": "", "type": "address"}],
  "stateMutability": "view",
  "type": "function"
}]`

// Preset is the bridge configuration of a supported target chain.
type Preset struct {
	ChainID common.ChainID
	// FilePrefix starts the output file name, e.g. GnosisCoingeckoTokensList.json.
	FilePrefix    string
	BridgeAddress string
	BridgeABI     string
	MethodName    string
	// TokensToReplace uses canonical deployments instead of the bridged representation.
	TokensToReplace map[string]*ethCommon.Address
	// LiquidSymbols restricts the list to tokens with liquidity on the target chain. Empty keeps all.
	LiquidSymbols []string
}

func addr(s string) *ethCommon.Address {
	a := ethCommon.HexToAddress(s)
	return &a
}

var presets = map[common.ChainID]Preset{
	common.ChainIDGnosisChain: {
		ChainID:       common.ChainIDGnosisChain,
		FilePrefix:    "Gnosis",
		BridgeAddress: "0xf6A78083ca3e2a662D6dd1703c939c8aCE2e268d",
		BridgeABI:     omnibridgeABI,
		MethodName:    "bridgedTokenAddress",
	},
	common.ChainIDArbitrumOne: {
		ChainID:       common.ChainIDArbitrumOne,
		FilePrefix:    "ArbitrumOne",
		BridgeAddress: "0x09e9222e96e7b4ae2a407b98d48e330053351eee",
		BridgeABI:     arbitrumGatewayABI,
		MethodName:    "calculateL2TokenAddress",
		TokensToReplace: map[string]*ethCommon.Address{
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": addr("0xaf88d065e77c8cc2239327c5edb3a432268e5831"), // USDC
			"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": addr("0x82af49447d8a07e3bd95bd0d56f35241523fbab1"), // WETH
			"0x1a7e4e63778b4f12a199c062f3efdd288afcbce8": addr("0xFA5Ed56A203466CbBC2430a43c66b9D8723528E7"), // agEUR
			"0xb50721bcf8d664c30412cfbc6cf7a15145234ad1": addr("0x912CE59144191C1204E64559FE8253a0e49E6548"), // ARB
			"0x467719ad09025fcc6cf6f8311755809d45a5e5f3": addr("0x23ee2343B892b1BB63503a4FAbc840E0e2C6810f"), // AXL
			"0x3294395e62f4eb6af3f1fcf89f5602d90fb3ef69": addr("0x4E51aC49bC5e2d87e0EF713E9e5AB2D71EF4F336"), // CELO
			"0x6b175474e89094c44da98b954eedeac495271d0f": addr("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"), // DAI
			"0xc944e90c64b2c07662a292be6244bdf05cda44a7": addr("0x9623063377AD1B27544C965cCd7342f7EA7e88C7"), // GRT
			"0xc08512927d12348f6620a698105e1baac6ecd911": addr("0x589d35656641d6aB57A545F08cf473eCD9B6D5F7"), // GYEN
			"0x58b6a8a3302369daec383334672404ee733ab239": addr("0x289ba1701C2F088cf0faf8B3705246331cB8A839"), // LPT
			"0x57b946008913b82e4df85f501cbaed910e58d26c": addr("0xdA0a57B710768ae17941a9Fa33f8B720c8bD9ddD"), // POND
			"0xdac17f958d2ee523a2206206994597c13d831ec7": addr("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9"), // USDT
		},
		LiquidSymbols: []string{"ARB", "cbETH", "GRT", "LINK", "USDC", "USDT", "WBTC", "WETH"},
	},
}

// PresetFor returns the preset of a target chain.
func PresetFor(chainID common.ChainID) (Preset, bool) {
	p, ok := presets[chainID]
	return p, ok
}

// PresetChains returns the chains with a bridge preset.
func PresetChains() []common.ChainID {
	var out []common.ChainID
	for _, c := range common.SupportedChains() {
		if _, ok := presets[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ResolveSource maps a source name to a list location and the label used in output file names.
// "coingecko" and "uniswap" select the well-known lists, anything else is used as a URL or path.
func ResolveSource(source string) (location, label string) {
	switch source {
	case "", "coingecko":
		return CoinGeckoListURL, "Coingecko"
	case "uniswap":
		return UniswapListURL, "Uniswap"
	default:
		return source, "Custom"
	}
}

// SymbolFilter keeps the tokens whose symbol is one of symbols, compared exactly.
func SymbolFilter(symbols []string) func(tokenlist.TokenRecord) bool {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return func(t tokenlist.TokenRecord) bool {
		_, ok := set[t.Symbol]
		return ok
	}
}

// Params builds generation parameters for the preset. The output file is written to outputDir.
func (p Preset) Params(source, outputDir string) Params {
	location, label := ResolveSource(source)
	params := Params{
		ChainID:               p.ChainID,
		TokenListSource:       location,
		BridgeContractAddress: p.BridgeAddress,
		BridgeContractABI:     p.BridgeABI,
		MethodName:            p.MethodName,
		OutputFilePath:        filepath.Join(outputDir, fmt.Sprintf("%s%sTokensList.json", p.FilePrefix, label)),
		TokensToReplace:       p.TokensToReplace,
	}
	if len(p.LiquidSymbols) > 0 {
		params.TokenFilter = SymbolFilter(p.LiquidSymbols)
	}
	return params
}

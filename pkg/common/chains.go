package common

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ChainID is an EVM chain id (EIP-155).
type ChainID uint64

const (
	ChainIDMainnet     ChainID = 1
	ChainIDGnosisChain ChainID = 100
	ChainIDPolygon     ChainID = 137
	ChainIDBase        ChainID = 8453
	ChainIDArbitrumOne ChainID = 42161
	ChainIDAvalanche   ChainID = 43114
	ChainIDSepolia     ChainID = 11155111
)

// displayNames is used in list names ("CoinGecko on Gnosis chain").
var displayNames = map[ChainID]string{
	ChainIDMainnet:     "Ethereum",
	ChainIDGnosisChain: "Gnosis chain",
	ChainIDPolygon:     "Polygon",
	ChainIDBase:        "Base",
	ChainIDArbitrumOne: "Arbitrum one",
	ChainIDAvalanche:   "Avalanche",
	ChainIDSepolia:     "Sepolia",
}

func (c ChainID) String() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return fmt.Sprintf("chain-%d", uint64(c))
}

// SupportedChains returns the known chains in ascending chain id order.
func SupportedChains() []ChainID {
	chains := make([]ChainID, 0, len(displayNames))
	for c := range displayNames {
		chains = append(chains, c)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })
	return chains
}

// IsSupported reports whether the chain is one of the known chains.
func (c ChainID) IsSupported() bool {
	_, ok := displayNames[c]
	return ok
}

// ParseChainID accepts a decimal chain id or a case-insensitive alias ("gnosis", "arbitrum", ...).
func ParseChainID(str string) (ChainID, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "mainnet", "ethereum", "eth":
		return ChainIDMainnet, nil
	case "gnosis", "gnosischain", "xdai":
		return ChainIDGnosisChain, nil
	case "polygon", "matic":
		return ChainIDPolygon, nil
	case "base":
		return ChainIDBase, nil
	case "arbitrum", "arbitrumone", "arbitrum-one":
		return ChainIDArbitrumOne, nil
	case "avalanche", "avax":
		return ChainIDAvalanche, nil
	case "sepolia":
		return ChainIDSepolia, nil
	}

	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid chain id: %q", str)
	}
	return ChainID(n), nil
}

// ParseChainIDs parses a comma separated list of chains, skipping empty entries.
func ParseChainIDs(str string) ([]ChainID, error) {
	var chains []ChainID
	for _, s := range strings.Split(str, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		c, err := ParseChainID(s)
		if err != nil {
			return nil, err
		}
		chains = append(chains, c)
	}
	return chains, nil
}

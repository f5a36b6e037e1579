package auxlists

import (
	"context"
	"fmt"

	"github.com/cowprotocol/token-lists/pkg/coingecko"
	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"go.uber.org/zap"
)

const (
	UniswapPrefix = "Uniswap"
	UniswapLogo   = "ipfs://QmNa8mQkrNKp1WEEeGjFezDmDeodkWRevGFN8JCV7b4Xir"
)

// MapUniswapTokens returns the Uniswap tokens of a chain: its own entries followed by mainnet
// entries whose CoinGecko coin has a token on the chain, using the CoinGecko record of that token.
func MapUniswapTokens(chainID common.ChainID, uniTokens, coingeckoTokens []tokenlist.TokenRecord, ids *coingecko.IDMap, logger *zap.Logger) []tokenlist.TokenRecord {
	var out []tokenlist.TokenRecord
	present := make(map[string]struct{})
	var mainnet []tokenlist.TokenRecord

	for _, t := range uniTokens {
		switch t.ChainID {
		case int64(chainID):
			addr := common.NormalizeAddress(t.Address)
			if _, ok := present[addr]; ok {
				continue
			}
			present[addr] = struct{}{}
			out = append(out, t)
		case int64(common.ChainIDMainnet):
			mainnet = append(mainnet, t)
		}
	}

	byAddress := make(map[string]tokenlist.TokenRecord, len(coingeckoTokens))
	for _, t := range coingeckoTokens {
		byAddress[common.NormalizeAddress(t.Address)] = t
	}

	for _, t := range mainnet {
		id, ok := ids.ID(common.ChainIDMainnet, t.Address)
		if !ok {
			continue
		}
		addr, ok := ids.Address(chainID, id)
		if !ok {
			continue
		}
		if _, ok := present[addr]; ok {
			continue
		}
		cg, ok := byAddress[addr]
		if !ok {
			continue
		}
		present[addr] = struct{}{}
		out = append(out, cg)
		logger.Debug("mapped mainnet uniswap token",
			zap.String("symbol", t.Symbol),
			zap.String("coingeckoId", id),
			zap.String("source", t.Address),
			zap.String("target", addr))
	}
	return out
}

// Uniswap writes the Uniswap list of a non-mainnet chain.
func (g *Generator) Uniswap(ctx context.Context, chainID common.ChainID, uniTokens []tokenlist.TokenRecord, ids *coingecko.IDMap) (*tokenlist.TokenList, error) {
	if chainID == common.ChainIDMainnet {
		return nil, fmt.Errorf("%w: no uniswap list is generated for mainnet", common.ErrConfig)
	}

	cgTokens, err := g.coingecko.TokenList(ctx, chainID)
	if err != nil {
		return nil, err
	}

	tokens := MapUniswapTokens(chainID, uniTokens, cgTokens, ids, g.chainLogger(chainID))
	ranked := make([]RankedToken, 0, len(tokens))
	for _, t := range tokens {
		ranked = append(ranked, RankedToken{Token: t})
	}

	return ProcessTokenList(ProcessParams{
		ChainID:     chainID,
		Tokens:      ranked,
		Prefix:      UniswapPrefix,
		Logo:        UniswapLogo,
		OutputDir:   g.outputDir,
		Overrides:   g.overrides[chainID],
		Description: "uniswap tokens",
	}, g.logger)
}

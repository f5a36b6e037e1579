package auxlists

import (
	"context"
	"fmt"
	"sort"

	"github.com/cowprotocol/token-lists/pkg/coingecko"
	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"go.uber.org/zap"
)

const (
	CoinGeckoPrefix = "CoinGecko"
	CoinGeckoLogo   = "https://support.coingecko.com/hc/article_attachments/4499575478169/CoinGecko_logo.png"

	// DefaultTopTokens is the size of the CoinGecko lists.
	DefaultTopTokens = 500
)

// CoinGeckoAPI is the part of the CoinGecko client used to build lists.
type CoinGeckoAPI interface {
	TokenList(ctx context.Context, chainID common.ChainID) ([]tokenlist.TokenRecord, error)
	Markets(ctx context.Context, ids []string) ([]coingecko.MarketData, error)
}

// TopByVolume ranks tokens by the 24h volume CoinGecko reports for them, highest first. Tokens
// without a coin id or volume are left out.
func TopByVolume(ctx context.Context, api CoinGeckoAPI, ids *coingecko.IDMap, chainID common.ChainID, tokens []tokenlist.TokenRecord, n int) ([]RankedToken, error) {
	var coinIDs []string
	seen := make(map[string]struct{})
	for _, t := range tokens {
		id, ok := ids.ID(chainID, t.Address)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		coinIDs = append(coinIDs, id)
	}

	markets, err := api.Markets(ctx, coinIDs)
	if err != nil {
		return nil, err
	}

	volumeByAddress := make(map[string]float64, len(markets))
	for _, m := range markets {
		if m.TotalVolume <= 0 {
			continue
		}
		if addr, ok := ids.Address(chainID, m.ID); ok {
			volumeByAddress[addr] = m.TotalVolume
		}
	}

	ranked := make([]RankedToken, 0, len(volumeByAddress))
	for _, t := range tokens {
		if v, ok := volumeByAddress[common.NormalizeAddress(t.Address)]; ok {
			ranked = append(ranked, RankedToken{Token: t, Volume: v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Volume > ranked[j].Volume
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// CoinGeckoTop writes the list of the top tokens of a chain by volume.
func (g *Generator) CoinGeckoTop(ctx context.Context, chainID common.ChainID, ids *coingecko.IDMap) (*tokenlist.TokenList, error) {
	tokens, err := g.coingecko.TokenList(ctx, chainID)
	if err != nil {
		return nil, err
	}

	top, err := TopByVolume(ctx, g.coingecko, ids, chainID, tokens, g.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank tokens of %s: %w", chainID, err)
	}

	return ProcessTokenList(ProcessParams{
		ChainID:     chainID,
		Tokens:      top,
		Prefix:      CoinGeckoPrefix,
		Logo:        CoinGeckoLogo,
		OutputDir:   g.outputDir,
		Overrides:   g.overrides[chainID],
		Description: fmt.Sprintf("top %d tokens", g.topN),
	}, g.logger)
}

func (g *Generator) chainLogger(chainID common.ChainID) *zap.Logger {
	return g.logger.With(zap.Stringer("chain", chainID))
}

// Package auxlists builds auxiliary per-chain token lists from CoinGecko and Uniswap data.
package auxlists

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cowprotocol/token-lists/pkg/common"
	"github.com/cowprotocol/token-lists/pkg/tokenlist"
	"go.uber.org/zap"
)

// Overrides are partial records keyed by lower-cased address, coalesced onto matching tokens.
type Overrides map[string]tokenlist.TokenRecord

// RankedToken is a token with its 24h volume in USD. Volume is zero when unknown.
type RankedToken struct {
	Token  tokenlist.TokenRecord
	Volume float64
}

// ProcessParams describes one auxiliary list.
type ProcessParams struct {
	ChainID   common.ChainID
	Tokens    []RankedToken
	Prefix    string
	Logo      string
	OutputDir string
	Overrides Overrides
	// MergeExisting keeps the tokens of the stored list and only adds new addresses. By default the
	// stored tokens are replaced.
	MergeExisting bool
	// Description is logged as the header of the token listing.
	Description string
}

// ListName is the name of an auxiliary list, e.g. "CoinGecko on Gnosis chain".
func ListName(prefix string, chainID common.ChainID) string {
	return fmt.Sprintf("%s on %s", prefix, chainID)
}

// OutputPath is the file of an auxiliary list, e.g. <dir>/CoinGecko.100.json.
func OutputPath(dir, prefix string, chainID common.ChainID) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%d.json", prefix, uint64(chainID)))
}

// ProcessTokenList applies overrides and logo fixes to the tokens, merges them with the stored list
// when requested and saves the result.
func ProcessTokenList(p ProcessParams, logger *zap.Logger) (*tokenlist.TokenList, error) {
	logger = logger.With(
		zap.String("list", p.Prefix),
		zap.Stringer("chain", p.ChainID))

	logger.Info(p.Description, zap.Int("tokens", len(p.Tokens)))
	for i, t := range p.Tokens {
		fields := []zap.Field{
			zap.Int("rank", i+1),
			zap.String("name", t.Token.Name),
			zap.String("symbol", t.Token.Symbol),
		}
		if t.Volume > 0 {
			fields = append(fields, zap.String("volume", fmt.Sprintf("$%.2f", t.Volume)))
		}
		logger.Debug("token", fields...)
	}

	tokens := make([]tokenlist.TokenRecord, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		tokens = append(tokens, applyOverride(t.Token, p.Overrides))
	}

	path := OutputPath(p.OutputDir, p.Prefix, p.ChainID)
	prev, err := tokenlist.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read stored token list", zap.String("path", path), zap.Error(err))
		}
		prev = nil
	}

	list := &tokenlist.TokenList{
		Name:     ListName(p.Prefix, p.ChainID),
		LogoURI:  p.Logo,
		Keywords: []string{"defi"},
		Tokens:   tokens,
	}
	if prev != nil {
		if len(prev.Keywords) > 0 {
			list.Keywords = prev.Keywords
		}
		list.Tags = prev.Tags
		if p.MergeExisting {
			list.Tokens = tokenlist.MergeByAddress(prev.Tokens, tokens)
		}
	}

	saved, _, err := tokenlist.Save(path, list, logger)
	return saved, err
}

func applyOverride(token tokenlist.TokenRecord, overrides Overrides) tokenlist.TokenRecord {
	if o, ok := overrides[common.NormalizeAddress(token.Address)]; ok {
		token = tokenlist.Coalesce(token, o)
	} else {
		token = token.Clone()
	}
	token.LogoURI = strings.Replace(token.LogoURI, "thumb", "large", 1)
	return token
}

// ReadOverridesFile reads per-chain overrides from a JSON document of the form
// {"<chainId>": {"<address>": {partial token record}}}.
func ReadOverridesFile(path string) (map[common.ChainID]Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]map[string]tokenlist.TokenRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overrides from %s: %w", path, err)
	}

	out := make(map[common.ChainID]Overrides, len(raw))
	for chain, entries := range raw {
		chainID, err := common.ParseChainID(chain)
		if err != nil {
			return nil, fmt.Errorf("%w: overrides %s: %w", common.ErrConfig, path, err)
		}
		overrides := make(Overrides, len(entries))
		for addr, o := range entries {
			overrides[common.NormalizeAddress(addr)] = o
		}
		out[chainID] = overrides
	}
	return out, nil
}

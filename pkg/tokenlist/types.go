// Package tokenlist contains the token list document model (https://tokenlists.org) together with
// reading, writing, merging and versioning of lists.
package tokenlist

import (
	"fmt"

	"github.com/cowprotocol/token-lists/pkg/common"
)

// TokenRecord is a single token entry of a list.
type TokenRecord struct {
	ChainID    int64          `json:"chainId"`
	Address    string         `json:"address"`
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	Decimals   uint8          `json:"decimals"`
	LogoURI    string         `json:"logoURI,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Key identifies a record within a list: chain id plus the lower-cased address.
func (t TokenRecord) Key() string {
	return fmt.Sprintf("%d:%s", t.ChainID, common.NormalizeAddress(t.Address))
}

func (t TokenRecord) String() string {
	return fmt.Sprintf("%s (%s) chain %d %s", t.Name, t.Symbol, t.ChainID, t.Address)
}

// Clone returns a copy that does not share the extensions map.
func (t TokenRecord) Clone() TokenRecord {
	if t.Extensions != nil {
		ext := make(map[string]any, len(t.Extensions))
		for k, v := range t.Extensions {
			ext[k] = v
		}
		t.Extensions = ext
	}
	return t
}

// Version is the semantic version triple of a list.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TokenList is a versioned token list document.
type TokenList struct {
	Name      string         `json:"name"`
	Timestamp string         `json:"timestamp"`
	Version   Version        `json:"version"`
	LogoURI   string         `json:"logoURI,omitempty"`
	Keywords  []string       `json:"keywords,omitempty"`
	Tags      map[string]any `json:"tags,omitempty"`
	Tokens    []TokenRecord  `json:"tokens"`
}

// TokensForChain returns the tokens of the given chain, in list order.
func (l *TokenList) TokensForChain(chainID int64) []TokenRecord {
	var out []TokenRecord
	for _, t := range l.Tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

// Addresses returns the set of lower-cased token addresses of the list.
func Addresses(tokens []TokenRecord) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[common.NormalizeAddress(t.Address)] = struct{}{}
	}
	return set
}

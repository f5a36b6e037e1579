package tokenlist

import (
	"github.com/cowprotocol/token-lists/pkg/common"
)

// NextVersion computes the version of a list containing tokens, given the previously published list
// (nil if there is none):
//   - any removed address bumps major and resets minor and patch
//   - otherwise any added address bumps minor and resets patch
//   - otherwise a changed name, symbol, decimals or logo on an existing address bumps patch
//   - otherwise the previous version is returned unchanged
func NextVersion(prev *TokenList, tokens []TokenRecord) Version {
	var version Version
	var prevTokens []TokenRecord
	if prev != nil {
		version = prev.Version
		prevTokens = prev.Tokens
	}

	current := Addresses(prevTokens)
	next := Addresses(tokens)

	for addr := range current {
		if _, ok := next[addr]; !ok {
			return Version{Major: version.Major + 1}
		}
	}

	if len(next) > len(current) {
		return Version{Major: version.Major, Minor: version.Minor + 1}
	}

	byAddress := make(map[string]*TokenRecord, len(tokens))
	for i := range tokens {
		addr := common.NormalizeAddress(tokens[i].Address)
		if _, ok := byAddress[addr]; !ok {
			byAddress[addr] = &tokens[i]
		}
	}
	for _, old := range prevTokens {
		t, ok := byAddress[common.NormalizeAddress(old.Address)]
		if !ok {
			continue
		}
		if old.Name != t.Name || old.Symbol != t.Symbol || old.Decimals != t.Decimals || old.LogoURI != t.LogoURI {
			return Version{Major: version.Major, Minor: version.Minor, Patch: version.Patch + 1}
		}
	}

	return version
}

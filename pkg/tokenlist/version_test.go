package tokenlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func token(addr, symbol string) TokenRecord {
	return TokenRecord{ChainID: 100, Address: addr, Name: symbol + " token", Symbol: symbol, Decimals: 18}
}

func TestNextVersion(t *testing.T) {
	prev := &TokenList{
		Version: Version{Major: 2, Minor: 3, Patch: 4},
		Tokens:  []TokenRecord{token(addrA, "A"), token(addrB, "B")},
	}

	renamed := token(addrB, "B")
	renamed.Name = "Renamed"

	relogo := token(addrA, "A")
	relogo.LogoURI = "https://example.com/a.png"

	upperA := token("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "A")

	tests := []struct {
		name   string
		prev   *TokenList
		tokens []TokenRecord
		want   Version
	}{
		{
			name:   "unchanged",
			prev:   prev,
			tokens: []TokenRecord{token(addrA, "A"), token(addrB, "B")},
			want:   Version{2, 3, 4},
		},
		{
			name:   "reordered is unchanged",
			prev:   prev,
			tokens: []TokenRecord{token(addrB, "B"), token(addrA, "A")},
			want:   Version{2, 3, 4},
		},
		{
			name:   "address case is ignored",
			prev:   prev,
			tokens: []TokenRecord{upperA, token(addrB, "B")},
			want:   Version{2, 3, 4},
		},
		{
			name:   "removal bumps major",
			prev:   prev,
			tokens: []TokenRecord{token(addrA, "A")},
			want:   Version{3, 0, 0},
		},
		{
			name:   "removal and addition bumps major",
			prev:   prev,
			tokens: []TokenRecord{token(addrA, "A"), token(addrC, "C")},
			want:   Version{3, 0, 0},
		},
		{
			name:   "addition bumps minor",
			prev:   prev,
			tokens: []TokenRecord{token(addrA, "A"), token(addrB, "B"), token(addrC, "C")},
			want:   Version{2, 4, 0},
		},
		{
			name:   "name change bumps patch",
			prev:   prev,
			tokens: []TokenRecord{token(addrA, "A"), renamed},
			want:   Version{2, 3, 5},
		},
		{
			name:   "logo change bumps patch",
			prev:   prev,
			tokens: []TokenRecord{relogo, token(addrB, "B")},
			want:   Version{2, 3, 5},
		},
		{
			name:   "no previous list",
			prev:   nil,
			tokens: []TokenRecord{token(addrA, "A")},
			want:   Version{0, 1, 0},
		},
		{
			name:   "no previous list and no tokens",
			prev:   nil,
			tokens: nil,
			want:   Version{0, 0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextVersion(tc.prev, tc.tokens))
		})
	}
}

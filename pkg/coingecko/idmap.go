package coingecko

import (
	"github.com/cowprotocol/token-lists/pkg/common"
)

type platformIDs struct {
	idByAddress map[string]string
	addressByID map[string]string
}

// IDMap indexes CoinGecko coin ids by contract address and back, per platform. It is built once
// and only read afterwards, so it can be shared by concurrent transforms.
type IDMap struct {
	byPlatform map[string]*platformIDs
}

// NewIDMap indexes coins for the given platforms. Addresses are lower-cased.
func NewIDMap(coins []Coin, platforms []string) *IDMap {
	m := &IDMap{byPlatform: make(map[string]*platformIDs, len(platforms))}
	for _, p := range platforms {
		m.byPlatform[p] = &platformIDs{
			idByAddress: make(map[string]string),
			addressByID: make(map[string]string),
		}
	}

	for _, coin := range coins {
		for platform, address := range coin.Platforms {
			ids, ok := m.byPlatform[platform]
			if !ok || address == "" {
				continue
			}
			address = common.NormalizeAddress(address)
			ids.idByAddress[address] = coin.ID
			ids.addressByID[coin.ID] = address
		}
	}
	return m
}

// ID returns the coin id of an address on a chain.
func (m *IDMap) ID(chainID common.ChainID, address string) (string, bool) {
	ids, ok := m.byPlatform[GetPlatform(chainID)]
	if !ok {
		return "", false
	}
	id, ok := ids.idByAddress[common.NormalizeAddress(address)]
	return id, ok
}

// Address returns the lower-cased contract address of a coin on a chain.
func (m *IDMap) Address(chainID common.ChainID, id string) (string, bool) {
	ids, ok := m.byPlatform[GetPlatform(chainID)]
	if !ok {
		return "", false
	}
	addr, ok := ids.addressByID[id]
	return addr, ok
}

// Len returns the number of indexed addresses of a chain.
func (m *IDMap) Len(chainID common.ChainID) int {
	ids, ok := m.byPlatform[GetPlatform(chainID)]
	if !ok {
		return 0
	}
	return len(ids.idByAddress)
}

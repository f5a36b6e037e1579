package common

import (
	"fmt"
	"strings"

	ethCommon "github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the all-zero EVM address.
var ZeroAddress = ethCommon.Address{}

// NormalizeAddress returns the canonical lower-case, 0x-prefixed form used for comparisons and map keys.
// Strings that are not 20-byte hex addresses are returned lower-cased and trimmed.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if len(addr) == 40 && !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}
	return addr
}

// ParseAddress strictly parses a 20-byte hex address, with or without the 0x prefix.
func ParseAddress(addr string) (ethCommon.Address, error) {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		addr = "0x" + addr
	}
	if !ethCommon.IsHexAddress(addr) {
		return ethCommon.Address{}, fmt.Errorf("invalid address %q", addr)
	}
	return ethCommon.HexToAddress(addr), nil
}

// AddressString is the canonical textual form of an address written to token lists.
func AddressString(addr ethCommon.Address) string {
	return strings.ToLower(addr.Hex())
}

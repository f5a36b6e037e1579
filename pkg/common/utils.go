package common

import (
	"io"
)

// MaxSafeInputSize caps how much of an HTTP response body is read into memory.
// The CoinGecko coins list is the largest payload handled, at roughly 15 MiB.
const MaxSafeInputSize = 64 * 1024 * 1024

// SafeRead reads at most MaxSafeInputSize bytes from r.
func SafeRead(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxSafeInputSize))
}

package tokenlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cowprotocol/token-lists/pkg/common"
)

var (
	// ErrFetch is returned when a source list cannot be read or fetched.
	ErrFetch = errors.New("failed to fetch token list")
	// ErrWrite is returned when an output list cannot be written.
	ErrWrite = errors.New("failed to write token list")
)

// Getter fetches the body of a URL. *common.Fetcher implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Decode parses a token list document.
func Decode(data []byte) (*TokenList, error) {
	var list TokenList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token list: %w", err)
	}
	return &list, nil
}

// Load reads a list from an http(s) URL or a local file.
func Load(ctx context.Context, source string, getter Getter) (*TokenList, error) {
	if isURL(source) {
		if getter == nil {
			return nil, fmt.Errorf("%w: no http getter configured for %s", ErrFetch, source)
		}
		data, err := getter.Get(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("%w from %s: %w", ErrFetch, source, err)
		}
		list, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w from %s: %w", ErrFetch, source, err)
		}
		return list, nil
	}

	list, err := ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return list, nil
}

// ReadFile reads a list from disk. A missing file is reported with an error satisfying os.IsNotExist.
func ReadFile(path string) (*TokenList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	list, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// WriteFile writes the list as indented JSON. The file is written to a temporary file in the same
// directory and renamed into place, so readers never observe a partial document.
func WriteFile(path string, list *TokenList) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}

// ReadTokensFile reads a JSON array of token records, as used for operator curated additions.
func ReadTokensFile(path string) ([]TokenRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tokens []TokenRecord
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens from %s: %w", path, err)
	}
	for i := range tokens {
		tokens[i].Address = common.NormalizeAddress(tokens[i].Address)
	}
	return tokens, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

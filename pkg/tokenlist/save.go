package tokenlist

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// now is replaced in tests.
var now = time.Now

// Save writes list to path unless it is unchanged compared to the list already stored there. The
// version of list is ignored and recomputed with NextVersion against the stored list, and the
// timestamp is refreshed on write. Save returns the effective list (the stored one when nothing
// changed) and whether the file was written. A previous file that exists but cannot be read or
// parsed is left untouched and reported as ErrWrite.
func Save(path string, list *TokenList, logger *zap.Logger) (*TokenList, bool, error) {
	prev, err := ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("failed to read previous token list", zap.String("path", path), zap.Error(err))
			return nil, false, fmt.Errorf("%w %s: previous list is unreadable: %w", ErrWrite, path, err)
		}
		prev = nil
	}

	version := NextVersion(prev, list.Tokens)
	if prev != nil && version == prev.Version {
		logger.Info("no changes detected, token list not updated",
			zap.String("path", path),
			zap.Stringer("version", version),
			zap.Int("tokens", len(prev.Tokens)))
		return prev, false, nil
	}

	out := *list
	out.Version = version
	out.Timestamp = now().UTC().Format(time.RFC3339)
	if out.Tokens == nil {
		out.Tokens = []TokenRecord{}
	}

	if err := WriteFile(path, &out); err != nil {
		logger.Error("failed to write token list", zap.String("path", path), zap.Error(err))
		return nil, false, err
	}

	listsWritten.Inc()
	logger.Info("token list saved",
		zap.String("path", path),
		zap.String("name", out.Name),
		zap.Stringer("version", out.Version),
		zap.Int("tokens", len(out.Tokens)))

	return &out, true, nil
}

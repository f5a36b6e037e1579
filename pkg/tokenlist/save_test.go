package tokenlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedClock(t *testing.T, ts time.Time) {
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestSaveIsIdempotent(t *testing.T) {
	fixedClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "list.json")
	logger := zap.NewNop()

	list := &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A"), token(addrB, "B")}}

	first, written, err := Save(path, list, logger)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, Version{0, 1, 0}, first.Version)
	assert.Equal(t, "2024-05-01T12:00:00Z", first.Timestamp)

	info, err := os.Stat(path)
	require.NoError(t, err)

	fixedClock(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	second, written, err := Save(path, list, logger)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.Timestamp, second.Timestamp)

	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), info2.ModTime())
}

func TestSaveBumpsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	logger := zap.NewNop()

	_, _, err := Save(path, &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A")}}, logger)
	require.NoError(t, err)

	added, written, err := Save(path, &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A"), token(addrB, "B")}}, logger)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, Version{0, 2, 0}, added.Version)

	changed := token(addrB, "B")
	changed.Decimals = 6
	patched, written, err := Save(path, &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A"), changed}}, logger)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, Version{0, 2, 1}, patched.Version)

	removed, written, err := Save(path, &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A")}}, logger)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, Version{1, 0, 0}, removed.Version)

	onDisk, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, removed, onDisk)
}

func TestSaveRefusesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	saved, written, err := Save(path, &TokenList{Name: "Test", Tokens: []TokenRecord{token(addrA, "A")}}, zap.NewNop())
	require.ErrorIs(t, err, ErrWrite)
	assert.Nil(t, saved)
	assert.False(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

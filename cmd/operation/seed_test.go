package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/platform/sqlite"
)

func TestSeed_SQLite(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "giftaid.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	file, err := readSeedFile("testdata/seed.json")
	require.NoError(t, err)
	require.NoError(t, seed(ctx, store, file, logger))

	records, err := store.FetchTransactions(ctx, giftaid.FilterCriteria{CompanyID: "CMP-001"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	scope, err := store.ResolveCurrentUserScope(ctx, "jane.doe")
	require.NoError(t, err)
	assert.Equal(t, &giftaid.UserScope{ScopeID: "CMP-001", ScopeLabel: "Riverside Hospice"}, scope)

	// seeding twice replaces rows instead of duplicating them
	require.NoError(t, seed(ctx, store, file, logger))
	records, err = store.FetchTransactions(ctx, giftaid.FilterCriteria{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadSeedFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := readSeedFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"transactions":[{"id":"T1"}]}`), 0o600))
	_, err = readSeedFile(path)
	assert.EqualError(t, err, "transaction 0: id and invoiceDate are required")
}

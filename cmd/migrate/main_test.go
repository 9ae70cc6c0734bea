package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethnicityfacts/adapters/postgres"
	"ethnicityfacts/app"
	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal/migration"
)

func TestReadRedirects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redirects.csv")
	require.NoError(t, os.WriteFile(path, []byte("To_URI,From_URI\n/new,/old\n/short\n/b,/a\n"), 0644))

	pairs, err := readRedirects(path)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"/old", "/new"}, {"/a", "/b"}}, pairs)
}

func TestReadRedirectsNeedsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redirects.csv")
	require.NoError(t, os.WriteFile(path, []byte("source,target\n/a,/b\n"), 0644))

	_, err := readRedirects(path)
	assert.True(t, core.IsDataFormatError(err))
}

func TestImportRedirects(t *testing.T) {
	db, err := postgres.Open(postgres.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	svc := app.NewRedirectService(postgres.NewRedirectRepository(db))
	migrated, skipped := importRedirects(ctx, svc, [][2]string{
		{"/old", "/new"},
		{"/old/", "/other"},
		{"", "/nowhere"},
	})
	assert.Equal(t, 1, migrated)
	assert.Equal(t, 2, skipped)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/new", all[0].ToURI)
}

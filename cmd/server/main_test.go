package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/dpr-registry/pkg/metrics"
	"github.com/hazyhaar/dpr-registry/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastImport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "dpr.db"))
	require.NoError(t, err)
	defer st.Close()

	read := lastImport(st)
	last, err := read()
	require.NoError(t, err)
	assert.Nil(t, last, "no run recorded yet")

	ctx := context.Background()
	require.NoError(t, st.RecordRun(ctx, &store.Run{
		Source: "dpr.csv", RowsImported: 575, RowsDropped: 2, Status: store.RunOK,
		StartedAt: 1756684790, FinishedAt: 1756684800,
	}))
	last, err = read()
	require.NoError(t, err)
	assert.Equal(t, &metrics.LastImport{RowsImported: 575, RowsDropped: 2, OK: true, FinishedAt: 1756684800}, last)

	// The server scrapes what a separate import process wrote.
	reg := prometheus.NewRegistry()
	metrics.RegisterLastImport(reg, read)
	n, err := testutil.GatherAndCount(reg, "dpr_last_import_rows_imported")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	msg := "source not found"
	require.NoError(t, st.RecordRun(ctx, &store.Run{
		Source: "gone.csv", Status: store.RunFailed, Error: &msg,
		StartedAt: 1756771190, FinishedAt: 1756771200,
	}))
	last, err = read()
	require.NoError(t, err)
	assert.False(t, last.OK)
	assert.Zero(t, last.RowsImported)
}

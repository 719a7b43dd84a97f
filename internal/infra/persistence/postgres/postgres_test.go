package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"authsvc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNew_RequiresPostgresSection(t *testing.T) {
	db, err := New(Params{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{},
		Logger:    slog.Default(),
	})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "no postgres section")
}

func TestPoolWatcher_Check(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	samples := []sql.DBStats{
		{},
		{WaitCount: 0},
		{WaitCount: 2, WaitDuration: 10 * time.Millisecond, InUse: 4, MaxOpenConnections: 4},
		{WaitCount: 3, WaitDuration: 110 * time.Millisecond, InUse: 4, MaxOpenConnections: 4},
	}
	next := 0
	watcher := newPoolWatcher(logger, func() sql.DBStats {
		s := samples[next]
		next++

		return s
	})

	watcher.check(context.Background())
	assert.Empty(t, buf.String())

	watcher.check(context.Background())
	require.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"waits":2`)
	buf.Reset()

	watcher.check(context.Background())
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"waits":1`)
}

package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/migrations"
	"github.com/pkordes/carrylink/testutil"
)

// schema lists every table the migrations create with the indexes the
// repositories rely on.
var schema = map[string][]string{
	"trips":             {"trips_traveler_status_idx"},
	"shipment_requests": {"shipment_requests_open_idx"},
	"matches":           {"matches_active_pair_idx", "matches_shipment_request_idx"},
}

// TestMigrations applies every migration with migrations.Up, checks the
// schema, then rolls everything back and checks it is gone. Other packages'
// TestMain may already have migrated the shared database, so the test starts
// from version 0.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Len(t, results, len(schema), "one migration per table")

	for table, indexes := range schema {
		assert.True(t, tableExists(t, db, table), "table %q", table)
		for _, idx := range indexes {
			assert.True(t, indexExists(t, db, idx), "index %q", idx)
		}
	}

	// A second run is a no-op.
	results, err = migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for table := range schema {
		assert.False(t, tableExists(t, db, table), "table %q still present", table)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()

	const q = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

func indexExists(t *testing.T, db *sql.DB, index string) bool {
	t.Helper()

	const q = `SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname = 'public' AND indexname = $1)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, index).Scan(&exists))
	return exists
}

package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/testutil"
)

// newTestTx opens a transaction against the test database that is rolled back
// when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
func tripFixture() domain.Trip {
	return domain.Trip{
		TravelerID:    uuid.New(),
		FromCity:      "Paris",
		ToCity:        "Alger",
		DepartureDate: date(2025, 3, 10),
		Notes:         "one spare suitcase",
	}
}

// shipmentFixture returns a domain.ShipmentRequest with sensible defaults.
func shipmentFixture() domain.ShipmentRequest {
	price := 25.0
	return domain.ShipmentRequest{
		SenderID:     uuid.New(),
		FromCity:     "Paris",
		ToCity:       "Alger",
		EarliestDate: datePtr(2025, 3, 8),
		LatestDate:   datePtr(2025, 3, 12),
		ItemType:     "documents",
		WeightKg:     1.5,
		Notes:        "envelope",
		Price:        &price,
	}
}

package listings

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingColumns = []string{"id", "name", "price", "shippingCost", "supplier", "url"}

func TestPostgresQuerier_Select(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns).
		AddRow([]byte("7f0b3c2a-1d4e-4b5f-9a6c-8d7e6f5a4b3c"), []byte("CPU-B"), int64(50), int64(500), []byte("S2"), []byte("https://s2.example/b")).
		AddRow([]byte("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"), []byte("CPU-A"), int64(150), int64(1000), []byte("S1"), []byte("https://s1.example/a"))
	mock.ExpectQuery(regexp.QuoteMeta(ListingQuery().SQL())).WillReturnRows(rows)

	records, err := NewPostgresQuerier(db).Select(context.Background(), ListingQuery())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "7f0b3c2a-1d4e-4b5f-9a6c-8d7e6f5a4b3c", records[0]["id"])
	assert.Equal(t, "CPU-B", records[0]["name"])
	assert.Equal(t, int64(50), records[0]["price"])
	assert.Equal(t, int64(1000), records[1]["shippingCost"])
	assert.Equal(t, "S1", records[1]["supplier"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQuerier_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(ListingQuery().SQL())).
		WillReturnError(errors.New("relation \"listings\" does not exist"))

	_, err = NewPostgresQuerier(db).Select(context.Background(), ListingQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestPostgresQuerier_RowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns).
		AddRow("7f0b3c2a-1d4e-4b5f-9a6c-8d7e6f5a4b3c", "CPU-B", int64(50), int64(500), "S2", "https://s2.example/b").
		RowError(0, errors.New("connection reset"))
	mock.ExpectQuery(regexp.QuoteMeta(ListingQuery().SQL())).WillReturnRows(rows)

	_, err = NewPostgresQuerier(db).Select(context.Background(), ListingQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFetcher_WithPostgresQuerier(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns).
		AddRow([]byte("7f0b3c2a-1d4e-4b5f-9a6c-8d7e6f5a4b3c"), []byte("CPU-B"), int64(50), int64(500), []byte("S2"), []byte("https://s2.example/b"))
	mock.ExpectQuery(regexp.QuoteMeta(ListingQuery().SQL())).WillReturnRows(rows)

	fetcher, err := NewFetcher(NewPostgresQuerier(db))
	require.NoError(t, err)

	got, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(50), got[0].PriceCents)
	assert.Equal(t, int64(500), got[0].ShippingCents)
	assert.Equal(t, "S2", got[0].Supplier)
}

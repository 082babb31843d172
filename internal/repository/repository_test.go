package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	eventAt = time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var eventCols = []string{"id", "title", "category", "location", "date", "price", "available_seats",
	"image_url", "description", "artist", "created_at", "updated_at"}

func eventRow(id uint64, seats int, artist any) *sqlmock.Rows {
	return sqlmock.NewRows(eventCols).AddRow(id, "Jazz Night", "Concert", "Blue Hall", eventAt, 25.5, seats,
		"https://img/jazz.png", "Smooth", artist, created, created)
}

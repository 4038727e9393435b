package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cutine-backend/config"
)

func newTestSQLSlot(t *testing.T) *SQLSlot {
	t.Helper()
	db, err := config.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	s, err := NewSQLSlot(db, DriverSQLite)
	require.NoError(t, err)
	return s
}

func TestSQLSlotUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLSlot(t)
	require.Equal(t, DriverSQLite, s.Driver())

	_, err := s.Read(ctx, "cutine_records")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "cutine_records", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Write(ctx, "cutine_records", []byte(`[]`)))

	got, err := s.Read(ctx, "cutine_records")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	var count int64
	require.NoError(t, s.db.Model(&slotRow{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cutine-backend/config"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.StorageConfig{Driver: "memory"}, config.NopLogger())
	require.NoError(t, err)
	require.Equal(t, DriverMemory, b.Slot.Driver())
	require.NoError(t, b.Close())

	b, err = Open(ctx, config.StorageConfig{Driver: "fs", FSRoot: t.TempDir(), BusDriver: "memory"}, nil)
	require.NoError(t, err)
	require.Equal(t, DriverFS, b.Slot.Driver())
	require.NoError(t, b.Slot.Write(ctx, "k", []byte(`{}`)))
	require.NoError(t, b.Close())

	b, err = Open(ctx, config.StorageConfig{Driver: "sqlite", SQLitePath: "file:" + t.Name() + "?mode=memory&cache=shared", SingleInstance: true}, nil)
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, b.Slot.Driver())
	require.NoError(t, b.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "floppy"}, nil)
	require.Error(t, err)

	_, err = Open(context.Background(), config.StorageConfig{Driver: "memory", BusDriver: "carrier-pigeon"}, nil)
	require.Error(t, err)
}

func TestOpenRefusesUnwatchedSharedSlot(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	_, err := Open(context.Background(), config.StorageConfig{Driver: "sqlite", SQLitePath: dsn, BusDriver: "memory"}, nil)
	require.ErrorContains(t, err, "STORAGE_SINGLE_INSTANCE")
}

func TestOpenNoneBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b, err := Open(ctx, config.StorageConfig{Driver: "memory", BusDriver: "none"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.IsType(t, NopBus{}, b.Bus)

	changes, err := b.Slot.Watch(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, b.Slot.Write(ctx, "k", []byte(`1`)))
	got, _ := b.Slot.Read(ctx, "k")
	require.Equal(t, []byte(`1`), got)

	cancel()
	select {
	case _, ok := <-changes:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch did not end after cancel")
	}
}

func TestOpenFSSharesWritesAcrossBackends(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.StorageConfig{Driver: "fs", FSRoot: t.TempDir(), BusDriver: "memory"}
	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	fromA, err := a.Slot.Watch(ctx, "cutine_records")
	require.NoError(t, err)
	fromB, err := b.Slot.Watch(ctx, "cutine_records")
	require.NoError(t, err)

	require.NoError(t, a.Slot.Write(ctx, "cutine_records", []byte(`[{"id":"1"}]`)))
	select {
	case change := <-fromB:
		require.Equal(t, "cutine_records", change.Key)
		require.JSONEq(t, `[{"id":"1"}]`, string(change.Value))
	case <-time.After(2 * time.Second):
		t.Fatal("backend B never saw A's write")
	}

	select {
	case change := <-fromA:
		t.Fatalf("writer saw its own change: %s", change.Value)
	case <-time.After(100 * time.Millisecond):
	}
}

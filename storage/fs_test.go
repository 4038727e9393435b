package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFSSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFSSlot(root)
	require.NoError(t, err)
	require.Equal(t, DriverFS, s.Driver())

	_, err = s.Read(ctx, "cutine_profile")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "cutine_profile", []byte(`{"nickname":"mina"}`)))
	require.NoError(t, s.Write(ctx, "cutine_profile", []byte(`{"nickname":"jun"}`)))

	got, err := s.Read(ctx, "cutine_profile")
	require.NoError(t, err)
	require.JSONEq(t, `{"nickname":"jun"}`, string(got))

	_, err = os.Stat(filepath.Join(root, "cutine_profile.json"))
	require.NoError(t, err)
}

func TestFSSlotRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSSlot(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Write(ctx, "../escape", []byte(`1`)))
	require.Error(t, s.Write(ctx, "/abs", []byte(`1`)))
	_, err = s.Read(ctx, " ")
	require.Error(t, err)
}

func TestFSSlotWatchReportsExternalWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root := t.TempDir()
	s, err := NewFSSlot(root)
	require.NoError(t, err)

	changes, err := s.Watch(ctx, "cutine_profile")
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "cutine_profile", []byte(`{"own":true}`)))
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cutine_profile.json"), []byte(`{"nickname":"Mina"}`), 0o644))

	select {
	case change := <-changes:
		require.Equal(t, "cutine_profile", change.Key)
		require.Equal(t, "fs", change.Source)
		require.JSONEq(t, `{"nickname":"Mina"}`, string(change.Value))
	case <-time.After(2 * time.Second):
		t.Fatal("external write not reported")
	}
}

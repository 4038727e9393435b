package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cutine-backend/storage"
)

type entry struct {
	N int `json:"n"`
}

func TestJournalAppendCapsEntries(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	j := NewJournal[entry](slot, RemindersKey, 3, nil)

	require.Empty(t, j.Entries(ctx))
	for i := 1; i <= 5; i++ {
		j.Append(ctx, entry{N: i})
	}
	require.Equal(t, []entry{{3}, {4}, {5}}, j.Entries(ctx))
}

func TestJournalCorruptReadsEmpty(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Write(ctx, PartnerApplicationsKey, []byte(`oops`)))
	j := NewJournal[entry](slot, PartnerApplicationsKey, 0, nil)

	require.Empty(t, j.Entries(ctx))
	j.Append(ctx, entry{N: 1})
	require.Equal(t, []entry{{1}}, j.Entries(ctx))
}

func TestJournalClear(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	j := NewJournal[entry](slot, RemindersKey, 0, nil)
	j.Append(ctx, entry{N: 1})

	j.Clear(ctx)
	require.Empty(t, j.Entries(ctx))
	raw, err := slot.Read(ctx, RemindersKey)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

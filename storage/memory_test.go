package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemorySlotReadWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()

	_, err := s.Read(ctx, "cutine_records")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "cutine_records", []byte(`[]`)))
	got, err := s.Read(ctx, "cutine_records")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	// returned bytes are a copy
	got[0] = 'x'
	again, _ := s.Read(ctx, "cutine_records")
	require.Equal(t, `[]`, string(again))
}

func TestMemorySlotFailWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()
	boom := errors.New("quota exceeded")

	s.SetFailWrites(boom)
	require.ErrorIs(t, s.Write(ctx, "k", []byte("1")), boom)

	s.SetFailWrites(nil)
	require.NoError(t, s.Write(ctx, "k", []byte("1")))
}

func TestMemoryBusDeliversByKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewMemoryBus()

	records, err := bus.Subscribe(ctx, "cutine_records")
	require.NoError(t, err)
	profile, err := bus.Subscribe(ctx, "cutine_profile")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Change{Key: "cutine_records", Value: []byte(`[]`), Source: "a"}))

	select {
	case c := <-records:
		require.Equal(t, "a", c.Source)
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}
	select {
	case c := <-profile:
		t.Fatalf("unexpected change %+v", c)
	default:
	}
}

func TestMemoryBusCancelClosesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewMemoryBus()
	ch, err := bus.Subscribe(ctx, "k")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestMemoryBusClosed(t *testing.T) {
	bus := NewMemoryBus()
	require.NoError(t, bus.Close())
	require.Error(t, bus.Publish(context.Background(), Change{Key: "k"}))
	_, err := bus.Subscribe(context.Background(), "k")
	require.Error(t, err)
}

func TestMemoryBusSlowSubscriberKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewMemoryBus()
	ch, err := bus.Subscribe(ctx, "k")
	require.NoError(t, err)

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, bus.Publish(ctx, Change{Key: "k", Value: []byte{byte(i)}}))
	}

	var last Change
	for i := 0; i < subscriberBuffer; i++ {
		last = <-ch
	}
	require.Equal(t, []byte{byte(subscriberBuffer + 4)}, last.Value)
}

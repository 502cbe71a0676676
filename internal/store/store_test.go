package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Empty(t, v, "missing keys read as empty")

	require.NoError(t, s.Put(ctx, "token", "abc"))
	require.NoError(t, s.Put(ctx, "role", "customer"))

	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	require.NoError(t, s.Put(ctx, "token", "def"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "def", v)

	require.NoError(t, s.Delete(ctx, "token"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, s.Delete(ctx, "never-set"))

	v, err = s.Get(ctx, "role")
	require.NoError(t, err)
	require.Equal(t, "customer", v)
}

func TestPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "token", "persisted"))
	require.NoError(t, s.Record(ctx, Event{Type: "booking", Action: "submitted", Reference: "bk-1"}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "persisted", v)

	events, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "bk-1", events[0].Reference)
}

func TestHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events, err := s.History(ctx)
	require.NoError(t, err)
	require.Empty(t, events)

	require.NoError(t, s.Record(ctx, Event{Type: "booking", Action: "submitted", Reference: "bk-1", Summary: "Plumber on 2026-05-03"}))
	require.NoError(t, s.Record(ctx, Event{Type: "registration", Action: "submitted", Summary: "Electrician"}))
	require.NoError(t, s.Record(ctx, Event{Type: "booking", Action: "failed", Summary: "slot taken"}))

	events, err = s.History(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "bk-1", events[0].Reference)
	require.Equal(t, "registration", events[1].Type)
	require.Equal(t, "failed", events[2].Action)
	for _, ev := range events {
		require.NotEmpty(t, ev.ID)
		require.False(t, ev.Timestamp.IsZero())
	}
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { s.Close() })

	return s
}

func registerParticipant(t *testing.T, s *SQLiteStore, name string, at time.Time) *store.Participant {
	t.Helper()

	p := &store.Participant{Name: name, LastStatus: at}
	joined := &store.Message{
		From: name,
		To:   store.BroadcastTarget,
		Text: store.JoinedText,
		Type: store.TypeStatus,
		Time: at,
	}
	require.NoError(t, s.CreateParticipant(context.Background(), p, joined))
	return p
}

func TestCreateParticipant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	p := registerParticipant(t, s, "alice", now)
	assert.NotEmpty(t, p.ID)

	// Duplicate name must be rejected.
	err := s.CreateParticipant(ctx, &store.Participant{Name: "alice", LastStatus: now}, nil)
	assert.ErrorIs(t, err, store.ErrNameTaken)

	// Registration appended exactly one join status message.
	msgs, err := s.ListVisibleMessages(ctx, "alice", 100)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].From)
	assert.Equal(t, store.BroadcastTarget, msgs[0].To)
	assert.Equal(t, store.JoinedText, msgs[0].Text)
	assert.Equal(t, store.TypeStatus, msgs[0].Type)
}

func TestGetAndTouchParticipant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	before := time.Now().Add(-time.Minute)

	registerParticipant(t, s, "bob", before)

	_, err := s.GetParticipantByName(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.TouchParticipant(ctx, "nobody", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)

	now := time.Now()
	require.NoError(t, s.TouchParticipant(ctx, "bob", now))

	p, err := s.GetParticipantByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), p.LastStatus.UnixMilli())
	assert.GreaterOrEqual(t, p.LastStatus.UnixMilli(), before.UnixMilli())
}

func TestListInactiveSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	registerParticipant(t, s, "stale", now.Add(-30*time.Second))
	registerParticipant(t, s, "fresh", now)

	inactive, err := s.ListInactiveSince(ctx, now.Add(-10*time.Second))
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "stale", inactive[0].Name)
}

func TestEvictParticipant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	cutoff := now.Add(-10 * time.Second)

	registerParticipant(t, s, "stale", now.Add(-30*time.Second))

	left := &store.Message{
		From: "stale",
		To:   store.BroadcastTarget,
		Text: store.LeftText,
		Type: store.TypeStatus,
		Time: now,
	}
	evicted, err := s.EvictParticipant(ctx, "stale", cutoff, left)
	require.NoError(t, err)
	assert.True(t, evicted)

	_, err = s.GetParticipantByName(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)

	msgs, err := s.ListVisibleMessages(ctx, "viewer", 100)
	require.NoError(t, err)
	var leaves int
	for _, m := range msgs {
		if m.Text == store.LeftText && m.From == "stale" {
			leaves++
		}
	}
	assert.Equal(t, 1, leaves, "expected exactly one leave message")
}

func TestEvictParticipantHeartbeatWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	cutoff := now.Add(-10 * time.Second)

	registerParticipant(t, s, "racer", now.Add(-30*time.Second))

	// Heartbeat lands between the reaper's read and its delete.
	require.NoError(t, s.TouchParticipant(ctx, "racer", now))

	left := &store.Message{
		From: "racer",
		To:   store.BroadcastTarget,
		Text: store.LeftText,
		Type: store.TypeStatus,
		Time: now,
	}
	evicted, err := s.EvictParticipant(ctx, "racer", cutoff, left)
	require.NoError(t, err)
	assert.False(t, evicted)

	// Participant survived and no leave message was written.
	_, err = s.GetParticipantByName(ctx, "racer")
	assert.NoError(t, err)

	msgs, err := s.ListVisibleMessages(ctx, "viewer", 100)
	require.NoError(t, err)
	for _, m := range msgs {
		assert.NotEqual(t, store.LeftText, m.Text)
	}
}

func TestListVisibleMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	save := func(from, to, text string, typ store.MessageType) {
		t.Helper()
		require.NoError(t, s.SaveMessage(ctx, &store.Message{
			From: from, To: to, Text: text, Type: typ, Time: now,
		}))
	}

	save("alice", store.BroadcastTarget, "hello everyone", store.TypeMessage)
	save("alice", "bob", "psst bob", store.TypePrivate)
	save("alice", "carol", "psst carol", store.TypePrivate)
	save("bob", "alice", "hey alice", store.TypePrivate)
	save("carol", store.BroadcastTarget, store.JoinedText, store.TypeStatus)

	msgs, err := s.ListVisibleMessages(ctx, "bob", 100)
	require.NoError(t, err)

	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	// Insertion order, minus the private message between alice and carol.
	assert.Equal(t, []string{"hello everyone", "psst bob", "hey alice", store.JoinedText}, texts)

	// Limit caps the result set from the front.
	msgs, err = s.ListVisibleMessages(ctx, "bob", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello everyone", msgs[0].Text)
	assert.Equal(t, "psst bob", msgs[1].Text)
}

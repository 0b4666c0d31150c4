package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauportal/notifier/pkg/notifications"
)

func TestMemoryStorage_Create(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves a notification", func(t *testing.T) {
		t.Parallel()

		s := notifications.NewMemoryStorage()
		notif := notifications.Notification{
			ID:         "n1",
			UserID:     "alice",
			Message:    "hello",
			ReceivedAt: time.Now().UTC(),
		}
		require.NoError(t, s.Create(context.Background(), notif))

		got, err := s.Get(context.Background(), "n1")
		require.NoError(t, err)
		assert.Equal(t, notif, *got)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		t.Parallel()

		s := notifications.NewMemoryStorage()
		notif := notifications.Notification{ID: "n1", UserID: "alice", Message: "hello"}
		require.NoError(t, s.Create(context.Background(), notif))
		assert.Error(t, s.Create(context.Background(), notif))
	})

	t.Run("requires id and user id", func(t *testing.T) {
		t.Parallel()

		s := notifications.NewMemoryStorage()
		assert.Error(t, s.Create(context.Background(), notifications.Notification{UserID: "alice"}))
		assert.Error(t, s.Create(context.Background(), notifications.Notification{ID: "n1"}))
	})
}

func TestMemoryStorage_ListByUser(t *testing.T) {
	t.Parallel()

	s := notifications.NewMemoryStorage()
	base := time.Now().UTC()

	for i, notif := range []notifications.Notification{
		{ID: "old", UserID: "alice", Message: "first", ReceivedAt: base.Add(-2 * time.Hour)},
		{ID: "new", UserID: "alice", Message: "second", ReceivedAt: base},
		{ID: "other", UserID: "bob", Message: "not alice's", ReceivedAt: base},
	} {
		require.NoError(t, s.Create(context.Background(), notif), "notification %d", i)
	}

	list, err := s.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID, "newest first")
	assert.Equal(t, "old", list[1].ID)

	empty, err := s.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStorage_SetReadAt(t *testing.T) {
	t.Parallel()

	t.Run("sets and clears the read timestamp", func(t *testing.T) {
		t.Parallel()

		s := notifications.NewMemoryStorage()
		require.NoError(t, s.Create(context.Background(), notifications.Notification{
			ID: "n1", UserID: "alice", Message: "hello",
		}))

		readAt := time.Now().UTC()
		updated, err := s.SetReadAt(context.Background(), "n1", &readAt)
		require.NoError(t, err)
		require.NotNil(t, updated.ReadAt)
		assert.Equal(t, readAt, *updated.ReadAt)

		updated, err = s.SetReadAt(context.Background(), "n1", nil)
		require.NoError(t, err)
		assert.Nil(t, updated.ReadAt)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		t.Parallel()

		s := notifications.NewMemoryStorage()
		_, err := s.SetReadAt(context.Background(), "missing", nil)
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})
}

func TestMemoryStorage_Delete(t *testing.T) {
	t.Parallel()

	s := notifications.NewMemoryStorage()
	require.NoError(t, s.Create(context.Background(), notifications.Notification{
		ID: "n1", UserID: "alice", Message: "hello",
	}))

	require.NoError(t, s.Delete(context.Background(), "n1"))

	_, err := s.Get(context.Background(), "n1")
	assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "n1"), notifications.ErrNotificationNotFound)
}

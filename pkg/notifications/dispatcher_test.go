package notifications_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauportal/notifier/pkg/broadcast"
	"github.com/sauportal/notifier/pkg/email"
	"github.com/sauportal/notifier/pkg/notifications"
)

type fakeDirectory struct {
	mu       sync.Mutex
	groups   map[string][]string
	emails   map[string]string
	groupErr error
	lookups  []string
}

func (f *fakeDirectory) ResolveGroup(_ context.Context, groupID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, groupID)
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return f.groups[groupID], nil
}

func (f *fakeDirectory) ResolveEmail(_ context.Context, userID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr, ok := f.emails[userID]
	return addr, ok
}

type fakeEmailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func (f *fakeEmailer) SendAsync(_ context.Context, msg email.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

func (f *fakeEmailer) messages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingBroadcaster) Subscribe(_ context.Context, _ string) broadcast.Subscriber[[]notifications.Notification] {
	return nil
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, topic string, _ broadcast.Message[[]notifications.Notification]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingBroadcaster) Close() error { return nil }

func (r *recordingBroadcaster) broadcastTopics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}

// failingStorage wraps MemoryStorage and fails Create after a threshold.
type failingStorage struct {
	*notifications.MemoryStorage
	mu      sync.Mutex
	created int
	failAt  int
}

func (f *failingStorage) Create(ctx context.Context, notif notifications.Notification) error {
	f.mu.Lock()
	f.created++
	n := f.created
	f.mu.Unlock()
	if n >= f.failAt {
		return errors.New("write failed")
	}
	return f.MemoryStorage.Create(ctx, notif)
}

func TestDispatcher_CreateNotifications(t *testing.T) {
	t.Parallel()

	t.Run("creates one record per user with shared timestamp", func(t *testing.T) {
		t.Parallel()

		storage := notifications.NewMemoryStorage()
		bc := &recordingBroadcaster{}
		d := notifications.NewDispatcher(storage, bc, &fakeDirectory{})

		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice", "bob"},
			Title:   "Maintenance window",
			Message: "Service unavailable at midnight",
			Type:    notifications.TypeWarning,
			Channel: notifications.ChannelPush,
		})
		require.NoError(t, err)
		require.Len(t, created, 2)

		assert.Equal(t, created[0].ReceivedAt, created[1].ReceivedAt)
		assert.NotEqual(t, created[0].ID, created[1].ID)
		assert.Equal(t, "alice", created[0].UserID)
		assert.Equal(t, "bob", created[1].UserID)

		for _, n := range created {
			stored, err := storage.Get(context.Background(), n.ID)
			require.NoError(t, err)
			assert.Equal(t, n.Title, stored.Title)
			assert.Nil(t, stored.ReadAt)
		}

		assert.Equal(t, []string{"alice", "bob"}, bc.broadcastTopics())
	})

	t.Run("expands groups and deduplicates recipients", func(t *testing.T) {
		t.Parallel()

		storage := notifications.NewMemoryStorage()
		dir := &fakeDirectory{groups: map[string][]string{
			"ops": {"alice", "carol"},
		}}
		d := notifications.NewDispatcher(storage, &recordingBroadcaster{}, dir)

		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice"},
			Groups:  []string{"ops"},
			Message: "Deploy finished",
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "alice", created[0].UserID)
		assert.Equal(t, "carol", created[1].UserID)
	})

	t.Run("group resolution failure persists nothing", func(t *testing.T) {
		t.Parallel()

		storage := notifications.NewMemoryStorage()
		dir := &fakeDirectory{groupErr: errors.New("directory unavailable")}
		bc := &recordingBroadcaster{}
		d := notifications.NewDispatcher(storage, bc, dir)

		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice"},
			Groups:  []string{"ops"},
			Message: "never delivered",
		})
		require.Error(t, err)
		assert.Nil(t, created)

		list, err := storage.ListByUser(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Empty(t, bc.broadcastTopics())
	})

	t.Run("empty recipient set yields empty result", func(t *testing.T) {
		t.Parallel()

		d := notifications.NewDispatcher(notifications.NewMemoryStorage(), &recordingBroadcaster{}, &fakeDirectory{})

		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Message: "nobody listening",
		})
		require.NoError(t, err)
		assert.NotNil(t, created)
		assert.Empty(t, created)
	})

	t.Run("email fires after the batch commits", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{emails: map[string]string{"alice": "alice@example.com"}}
		emailer := &fakeEmailer{}
		d := notifications.NewDispatcher(notifications.NewMemoryStorage(), &recordingBroadcaster{}, dir,
			notifications.WithEmailer(emailer))

		_, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice"},
			Title:   "Weekly digest",
			Message: "Here is your digest",
			Channel: notifications.ChannelAll,
		})
		require.NoError(t, err)

		msgs := emailer.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{"alice@example.com"}, msgs[0].To)
		assert.Equal(t, "Weekly digest", msgs[0].Subject)
		assert.NotEmpty(t, msgs[0].Template)
	})

	t.Run("failed batch sends no email", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{emails: map[string]string{
			"alice": "alice@example.com",
			"bob":   "bob@example.com",
		}}
		emailer := &fakeEmailer{}
		storage := &failingStorage{MemoryStorage: notifications.NewMemoryStorage(), failAt: 2}
		d := notifications.NewDispatcher(storage, &recordingBroadcaster{}, dir,
			notifications.WithEmailer(emailer))

		_, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice", "bob"},
			Message: "partial batch",
			Channel: notifications.ChannelAll,
		})
		require.Error(t, err)
		assert.Empty(t, emailer.messages())
	})

	t.Run("missing email address skips delivery without error", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		emailer := &fakeEmailer{}
		d := notifications.NewDispatcher(notifications.NewMemoryStorage(), &recordingBroadcaster{}, dir,
			notifications.WithEmailer(emailer))

		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"ghost"},
			Message: "into the void",
			Channel: notifications.ChannelEmail,
		})
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Empty(t, emailer.messages())
	})

	t.Run("push-only channel never emails", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{emails: map[string]string{"alice": "alice@example.com"}}
		emailer := &fakeEmailer{}
		d := notifications.NewDispatcher(notifications.NewMemoryStorage(), &recordingBroadcaster{}, dir,
			notifications.WithEmailer(emailer))

		_, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice"},
			Message: "push only",
			Channel: notifications.ChannelPush,
		})
		require.NoError(t, err)
		assert.Empty(t, emailer.messages())
	})
}

func TestDispatcher_ReadState(t *testing.T) {
	t.Parallel()

	newDispatcher := func(t *testing.T) (*notifications.Dispatcher, notifications.Notification) {
		t.Helper()
		storage := notifications.NewMemoryStorage()
		d := notifications.NewDispatcher(storage, &recordingBroadcaster{}, &fakeDirectory{})
		created, err := d.CreateNotifications(context.Background(), notifications.CreateRequest{
			Users:   []string{"alice"},
			Message: "mark me",
		})
		require.NoError(t, err)
		require.Len(t, created, 1)
		return d, created[0]
	}

	t.Run("mark as read stamps the current time", func(t *testing.T) {
		t.Parallel()

		d, notif := newDispatcher(t)
		before := time.Now().UTC()

		updated, err := d.MarkAsRead(context.Background(), notif.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.ReadAt)
		assert.True(t, updated.IsRead())
		assert.False(t, updated.ReadAt.Before(before))
	})

	t.Run("mark as unread clears the timestamp", func(t *testing.T) {
		t.Parallel()

		d, notif := newDispatcher(t)
		_, err := d.MarkAsRead(context.Background(), notif.ID)
		require.NoError(t, err)

		updated, err := d.MarkAsUnread(context.Background(), notif.ID)
		require.NoError(t, err)
		assert.Nil(t, updated.ReadAt)
		assert.False(t, updated.IsRead())
	})

	t.Run("get and mark as read returns the updated record", func(t *testing.T) {
		t.Parallel()

		d, notif := newDispatcher(t)

		got, err := d.GetAndMarkAsRead(context.Background(), notif.ID)
		require.NoError(t, err)
		assert.Equal(t, notif.ID, got.ID)
		assert.True(t, got.IsRead())
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		t.Parallel()

		d, _ := newDispatcher(t)

		_, err := d.MarkAsRead(context.Background(), "missing")
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})
}

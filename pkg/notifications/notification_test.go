package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sauportal/notifier/pkg/notifications"
)

func TestChannel_Policies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channel   notifications.Channel
		wantPush  bool
		wantEmail bool
	}{
		{notifications.ChannelPush, true, false},
		{notifications.ChannelEmail, false, true},
		{notifications.ChannelAll, true, true},
		{notifications.Channel(""), true, false}, // unset defaults to push
	}

	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantPush, tt.channel.IncludesPush())
			assert.Equal(t, tt.wantEmail, tt.channel.IncludesEmail())
		})
	}
}

func TestNotification_IsRead(t *testing.T) {
	t.Parallel()

	n := notifications.Notification{ID: "n1", UserID: "alice"}
	assert.False(t, n.IsRead())

	now := time.Now().UTC()
	n.ReadAt = &now
	assert.True(t, n.IsRead())
}

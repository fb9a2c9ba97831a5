package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Channel names are a wire contract shared by publisher and subscribers;
// these strings must stay bit-exact.
func TestChannelNames(t *testing.T) {
	assert.Equal(t, "posts.42", PostChannel(42))
	assert.Equal(t, "posts", PostsChannel())
	assert.Equal(t, "notifications.7", NotificationChannel(7))
}

func TestIsSubscribable(t *testing.T) {
	for _, channel := range []string{"posts", "posts.42", "notifications.7"} {
		assert.True(t, IsSubscribable(channel), channel)
	}
	for _, channel := range []string{"", "posts.", "posts.abc", "notifications.", "firewall", "events"} {
		assert.False(t, IsSubscribable(channel), channel)
	}
}

func TestNotificationChannelOwner(t *testing.T) {
	owner, ok := NotificationChannelOwner(NotificationChannel(7))
	require.True(t, ok)
	assert.Equal(t, int64(7), owner)

	_, ok = NotificationChannelOwner(PostChannel(7))
	assert.False(t, ok)
}

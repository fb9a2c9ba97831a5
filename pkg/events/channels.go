package events

import (
	"strconv"
	"strings"

	"github.com/driftsocial/server/pkg/feedid"
)

// Channel names are computed here and nowhere else. The publisher and every
// subscriber go through the same functions so the names can never drift.

const globalPostsChannel = "posts"

// PostChannel is the public per-post channel carrying likes/comment/share
// activity for one post.
func PostChannel(postId feedid.ID) string {
	return "posts." + strconv.FormatInt(postId, 10)
}

// PostsChannel is the public global channel carrying post lifecycle events
// (updated/deleted) not tied to a still-open per-post subscription.
func PostsChannel() string {
	return globalPostsChannel
}

// NotificationChannel is the private per-user channel. Only that user's own
// session may subscribe.
func NotificationChannel(userId feedid.ID) string {
	return "notifications." + strconv.FormatInt(userId, 10)
}

// IsSubscribable reports whether the name is one the gateway will accept
// from a client.
func IsSubscribable(channel string) bool {
	if channel == globalPostsChannel {
		return true
	}
	if id, ok := strings.CutPrefix(channel, "posts."); ok {
		_, err := strconv.ParseInt(id, 10, 64)
		return err == nil
	}
	_, ok := NotificationChannelOwner(channel)
	return ok
}

// NotificationChannelOwner extracts the owning user id from a private
// notification channel name.
func NotificationChannelOwner(channel string) (feedid.ID, bool) {
	id, ok := strings.CutPrefix(channel, "notifications.")
	if !ok {
		return 0, false
	}
	userId, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return userId, true
}

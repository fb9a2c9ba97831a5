package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records subscriptions and lets tests push envelopes.
type fakeTransport struct {
	mu   sync.Mutex
	subs map[string]*fakeSubscription

	subscribed   []string
	unsubscribed []string
}

type fakeSubscription struct {
	transport *fakeTransport
	channel   string
	events    chan events.Envelope
	once      sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{subs: map[string]*fakeSubscription{}}
}

func (t *fakeTransport) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sub := &fakeSubscription{
		transport: t,
		channel:   channel,
		events:    make(chan events.Envelope, 16),
	}
	t.subs[channel] = sub
	t.subscribed = append(t.subscribed, channel)
	return sub, nil
}

func (t *fakeTransport) push(channel string, e events.Envelope) bool {
	t.mu.Lock()
	sub, ok := t.subs[channel]
	t.mu.Unlock()
	if !ok {
		return false
	}
	sub.events <- e
	return true
}

func (s *fakeSubscription) Events() <-chan events.Envelope { return s.events }

func (s *fakeSubscription) Close() error {
	s.transport.mu.Lock()
	delete(s.transport.subs, s.channel)
	s.transport.unsubscribed = append(s.transport.unsubscribed, s.channel)
	s.transport.mu.Unlock()
	s.once.Do(func() { close(s.events) })
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestManager_MountSubscribesOnce(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)

	require.NoError(t, m.Mount(context.Background(), 10))
	require.NoError(t, m.Mount(context.Background(), 10))

	assert.Equal(t, []string{"posts.10"}, transport.subscribed)
	assert.True(t, m.Mounted(10))
}

func TestManager_EnvelopeReachesReconciler(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)
	require.NoError(t, m.Mount(context.Background(), 10))

	require.True(t, transport.push("posts.10", events.PostLikesUpdated{PostId: 10, LikesCount: 6}))

	waitFor(t, func() bool {
		item, _ := store.Item(10)
		return item.LikesCount == 6
	})
}

func TestManager_UnmountStopsProcessing(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)
	require.NoError(t, m.Mount(context.Background(), 10))

	m.Unmount(10)
	assert.False(t, m.Mounted(10))
	assert.Equal(t, []string{"posts.10"}, transport.unsubscribed)

	// The channel is gone; nothing can be delivered for the post
	assert.False(t, transport.push("posts.10", events.PostLikesUpdated{PostId: 10, LikesCount: 6}))

	item, _ := store.Item(10)
	assert.Equal(t, int64(0), item.LikesCount)
}

func TestManager_UnmountBarsInFlightEnvelope(t *testing.T) {
	// An envelope that is already past the transport when Unmount is
	// called must not be merged once Unmount has returned.
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)
	require.NoError(t, m.Mount(context.Background(), 10))

	// Hold the store lock so the pump stalls with the envelope in hand
	store.mu.Lock()
	require.True(t, transport.push("posts.10", events.PostLikesUpdated{PostId: 10, LikesCount: 42}))
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Unmount(10)
		close(done)
	}()

	// The subscription is torn down even while the barrier waits
	waitFor(t, func() bool { return !m.Mounted(10) })
	store.mu.Unlock()
	<-done

	item, ok := store.Item(10)
	require.True(t, ok)
	assert.Equal(t, int64(0), item.LikesCount)
}

func TestManager_RemountIsFreshPair(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)

	require.NoError(t, m.Mount(context.Background(), 10))
	m.Unmount(10)
	require.NoError(t, m.Mount(context.Background(), 10))

	assert.Equal(t, []string{"posts.10", "posts.10"}, transport.subscribed)
	assert.Equal(t, []string{"posts.10"}, transport.unsubscribed)
	assert.True(t, m.Mounted(10))
}

func TestManager_PostDeletedTearsDownSubscription(t *testing.T) {
	// Scenario: delete arrives while the post is rendered with an open
	// subscription
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10)})
	m := NewManager(transport, store)
	require.NoError(t, m.Mount(context.Background(), 10))

	require.True(t, transport.push("posts.10", events.PostDeleted{PostId: 10}))

	waitFor(t, func() bool { return !m.Mounted(10) })
	_, ok := store.Item(10)
	assert.False(t, ok)

	waitFor(t, func() bool {
		transport.mu.Lock()
		defer transport.mu.Unlock()
		return len(transport.unsubscribed) == 1
	})
}

func TestManager_ListenNotifications(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	m := NewManager(transport, store)

	require.NoError(t, m.ListenNotifications(context.Background(), 7))
	assert.Equal(t, []string{"notifications.7"}, transport.subscribed)

	n := structs.NotificationView{Id: 1, UserId: 7, Type: structs.NotificationTypeFollow}
	require.True(t, transport.push("notifications.7", events.UserNotificationCreated{Notification: n}))

	waitFor(t, func() bool { return len(store.Notifications()) == 1 })
}

func TestManager_CloseTearsDownEverything(t *testing.T) {
	transport := newFakeTransport()
	store := NewStore()
	store.Load([]structs.FeedItemView{feedItem(10), feedItem(11)})
	m := NewManager(transport, store)

	require.NoError(t, m.Mount(context.Background(), 10))
	require.NoError(t, m.Mount(context.Background(), 11))
	require.NoError(t, m.ListenPosts(context.Background()))

	m.Close()

	assert.False(t, m.Mounted(10))
	assert.False(t, m.Mounted(11))
	transport.mu.Lock()
	defer transport.mu.Unlock()
	assert.Len(t, transport.unsubscribed, 3)
}

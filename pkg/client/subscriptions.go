package client

import (
	"context"
	"sync"

	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/feedid"
)

// Transport delivers envelopes from named channels. The production
// implementation dials the websocket gateway; tests substitute their own.
type Transport interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Subscription is one live channel subscription. Events is closed by Close.
type Subscription interface {
	Events() <-chan events.Envelope
	Close() error
}

// Manager opens exactly one subscription per mounted post and tears it down
// deterministically on unmount. It owns no merge logic; every envelope goes
// verbatim to the store's reconciler.
type Manager struct {
	transport Transport
	store     *Store

	mu   sync.Mutex
	subs map[feedid.ID]*postSub
	gen  uint64

	posts  Subscription
	notifs Subscription
}

type postSub struct {
	sub Subscription
	gen uint64
}

func NewManager(transport Transport, store *Store) *Manager {
	m := &Manager{
		transport: transport,
		store:     store,
		subs:      map[feedid.ID]*postSub{},
	}
	// A delete merged by the reconciler tears the subscription down too
	store.OnPostRemoved(m.Unmount)
	return m
}

// Mount opens the post's channel subscription. Mounting an already-mounted
// post is a no-op; a re-mount after Unmount is a fresh subscribe.
func (m *Manager) Mount(ctx context.Context, postId feedid.ID) error {
	m.mu.Lock()
	if _, ok := m.subs[postId]; ok {
		m.mu.Unlock()
		return nil
	}
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	sub, err := m.transport.Subscribe(ctx, events.PostChannel(postId))
	if err != nil {
		// Degraded mode: the post still renders from initial load data,
		// it just stops receiving live updates.
		return err
	}

	m.mu.Lock()
	if _, ok := m.subs[postId]; ok {
		// lost the race to another Mount of the same post
		m.mu.Unlock()
		sub.Close()
		return nil
	}
	m.subs[postId] = &postSub{sub: sub, gen: gen}
	m.mu.Unlock()

	go m.pump(postId, gen, sub)
	return nil
}

// Unmount closes the post's subscription. No envelope for the post is
// reconciled after Unmount returns.
func (m *Manager) Unmount(postId feedid.ID) {
	m.mu.Lock()
	ps, ok := m.subs[postId]
	if ok {
		delete(m.subs, postId)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	ps.sub.Close()

	// Barrier: the pump checks liveness under the store lock, so any
	// envelope that is mid-merge holds it. Taking the lock here means no
	// merge for this post lands after Unmount returns.
	m.store.mu.Lock()
	m.store.mu.Unlock()
}

// Mounted reports whether the post currently has a live subscription.
func (m *Manager) Mounted(postId feedid.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[postId]
	return ok
}

func (m *Manager) pump(postId feedid.ID, gen uint64, sub Subscription) {
	// Checked under the store lock inside ApplyIf, so the check and the
	// merge are atomic against Unmount's barrier
	live := func() bool {
		m.mu.Lock()
		ps, ok := m.subs[postId]
		ok = ok && ps.gen == gen
		m.mu.Unlock()
		return ok
	}
	for e := range sub.Events() {
		// Drop envelopes buffered across an unmount or re-mount
		if !m.store.ApplyIf(e, live) {
			return
		}
	}
}

// ListenPosts subscribes to the global posts lifecycle channel for the
// whole session.
func (m *Manager) ListenPosts(ctx context.Context) error {
	sub, err := m.transport.Subscribe(ctx, events.PostsChannel())
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.posts = sub
	m.mu.Unlock()

	go func() {
		for e := range sub.Events() {
			m.store.Apply(e)
		}
	}()
	return nil
}

// ListenNotifications subscribes to the session user's private channel.
func (m *Manager) ListenNotifications(ctx context.Context, userId feedid.ID) error {
	sub, err := m.transport.Subscribe(ctx, events.NotificationChannel(userId))
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.notifs = sub
	m.mu.Unlock()

	go func() {
		for e := range sub.Events() {
			m.store.Apply(e)
		}
	}()
	return nil
}

// Close tears down every subscription. Called on session end.
func (m *Manager) Close() {
	m.mu.Lock()
	subs := make([]Subscription, 0, len(m.subs)+2)
	for id, ps := range m.subs {
		subs = append(subs, ps.sub)
		delete(m.subs, id)
	}
	if m.posts != nil {
		subs = append(subs, m.posts)
		m.posts = nil
	}
	if m.notifs != nil {
		subs = append(subs, m.notifs)
		m.notifs = nil
	}
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

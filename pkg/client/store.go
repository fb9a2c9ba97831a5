package client

import (
	"sync"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
)

// FeedItem is the client's working state for one rendered post. The
// counters here are the live reconciled values; the PostView snapshot only
// contributes the display fields.
type FeedItem struct {
	Post   structs.PostView
	Liked  bool
	Shared bool

	LikesCount    int64
	CommentsCount int64
	SharesCount   int64

	Comments *CommentTree
}

// Store owns every mounted FeedItem plus the unread notification list and
// the pending optimistic predictions. All mutation happens under one mutex;
// a merge never blocks on I/O, so two merges can never interleave on the
// same entity.
type Store struct {
	mu sync.Mutex

	items map[feedid.ID]*FeedItem

	notifications   []structs.NotificationView
	notificationIds map[feedid.ID]bool

	predictions map[predictionKey]prediction

	onPostRemoved func(feedid.ID)
}

func NewStore() *Store {
	return &Store{
		items:           map[feedid.ID]*FeedItem{},
		notifications:   []structs.NotificationView{},
		notificationIds: map[feedid.ID]bool{},
		predictions:     map[predictionKey]prediction{},
	}
}

// OnPostRemoved registers the teardown hook invoked after a post is removed
// from the store (delete event or explicit removal). Called outside the
// store lock.
func (s *Store) OnPostRemoved(f func(feedid.ID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPostRemoved = f
}

// Load seeds the store from the initial page load.
func (s *Store) Load(items []structs.FeedItemView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.addItem(item)
	}
}

// AddItem mounts one post, e.g. when it scrolls into the rendered set.
func (s *Store) AddItem(item structs.FeedItemView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addItem(item)
}

func (s *Store) addItem(item structs.FeedItemView) {
	s.items[item.Post.Id] = &FeedItem{
		Post:   item.Post,
		Liked:  item.Liked,
		Shared: item.Shared,

		LikesCount:    clampCount(item.Post.LikesCount),
		CommentsCount: clampCount(item.Post.CommentsCount),
		SharesCount:   clampCount(item.Post.SharesCount),

		Comments: newCommentTree(item.Comments),
	}
}

// RemoveItem unmounts one post, e.g. when it scrolls out of the rendered
// set. Pending predictions for it are discarded.
func (s *Store) RemoveItem(postId feedid.ID) {
	s.mu.Lock()
	removed := s.removeItem(postId)
	hook := s.onPostRemoved
	s.mu.Unlock()

	if removed && hook != nil {
		hook(postId)
	}
}

func (s *Store) removeItem(postId feedid.ID) bool {
	if _, ok := s.items[postId]; !ok {
		return false
	}
	delete(s.items, postId)
	for key := range s.predictions {
		if key.entityId == postId {
			delete(s.predictions, key)
		}
	}
	return true
}

// Item returns a render snapshot of one post, or false if it is not
// mounted.
func (s *Store) Item(postId feedid.ID) (ItemSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[postId]
	if !ok {
		return ItemSnapshot{}, false
	}
	return ItemSnapshot{
		Post:          item.Post,
		Liked:         item.Liked,
		Shared:        item.Shared,
		LikesCount:    item.LikesCount,
		CommentsCount: item.CommentsCount,
		SharesCount:   item.SharesCount,
		Comments:      item.Comments.Display(),
	}, true
}

// ItemSnapshot is an immutable copy handed to the view layer.
type ItemSnapshot struct {
	Post   structs.PostView
	Liked  bool
	Shared bool

	LikesCount    int64
	CommentsCount int64
	SharesCount   int64

	Comments []structs.CommentView
}

// Notifications returns the unread notification list, newest first.
func (s *Store) Notifications() []structs.NotificationView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]structs.NotificationView, len(s.notifications))
	for i, n := range s.notifications {
		out[len(s.notifications)-1-i] = n
	}
	return out
}

func clampCount(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

package client

import (
	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/feedid"
)

// Apply merges one envelope into the store. Handlers are idempotent and
// order-tolerant: counters are last-value-wins by absolute count, comment
// merges dedupe by id, and an envelope for an unmounted post is a no-op.
// A matching pending prediction is cleared by the confirmed value.
func (s *Store) Apply(e events.Envelope) {
	s.ApplyIf(e, nil)
}

// ApplyIf merges the envelope only while live() still holds. live runs
// under the store lock, so a caller that flips the condition and then
// blocks on the lock is strictly ordered against the merge.
func (s *Store) ApplyIf(e events.Envelope, live func() bool) bool {
	s.mu.Lock()

	if live != nil && !live() {
		s.mu.Unlock()
		return false
	}

	var removed feedid.ID
	var hook func(feedid.ID)

	switch e := e.(type) {
	case events.PostLikesUpdated:
		if item, ok := s.items[e.PostId]; ok {
			item.LikesCount = clampCount(e.LikesCount)
			// The liked flag is only ever set by the local actor's own
			// action or a fresh fetch, never from this event. A delayed
			// echo of the user's own unlike must not revert it.
			delete(s.predictions, predictionKey{e.PostId, FieldLikesCount})
		}

	case events.PostCommentCreated:
		if item, ok := s.items[e.PostId]; ok {
			item.CommentsCount = clampCount(e.CommentsCount)
			item.Comments.merge(e.Comment)
			delete(s.predictions, predictionKey{e.PostId, FieldCommentsCount})
		}

	case events.PostShared:
		if item, ok := s.items[e.PostId]; ok {
			item.SharesCount = clampCount(e.SharesCount)
			delete(s.predictions, predictionKey{e.PostId, FieldSharesCount})
		}

	case events.PostUpdated:
		// Replace the display snapshot only. This event carries no
		// counters, and comments/likes state is left untouched.
		if item, ok := s.items[e.Post.Id]; ok {
			item.Post.Content = e.Post.Content
			item.Post.ImageUrl = e.Post.ImageUrl
			item.Post.Visibility = e.Post.Visibility
			item.Post.EditedAt = e.Post.EditedAt
		}

	case events.PostDeleted:
		if s.removeItem(e.PostId) {
			removed = e.PostId
			hook = s.onPostRemoved
		}

	case events.UserNotificationCreated:
		n := e.Notification
		if !s.notificationIds[n.Id] {
			s.notificationIds[n.Id] = true
			s.notifications = append(s.notifications, n)
		}
	}

	s.mu.Unlock()

	if hook != nil {
		hook(removed)
	}
	return true
}

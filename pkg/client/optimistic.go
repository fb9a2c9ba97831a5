package client

import (
	"time"

	"github.com/driftsocial/server/pkg/feedid"
)

// Field names a predictable counter on a feed item.
type Field string

const (
	FieldLikesCount    Field = "likes_count"
	FieldCommentsCount Field = "comments_count"
	FieldSharesCount   Field = "shares_count"
)

type predictionKey struct {
	entityId feedid.ID
	field    Field
}

// prediction is one pending optimistic value. prior holds the last
// confirmed state so a failed request can roll back; a second rapid action
// for the same field supersedes the prediction but keeps the original
// prior.
type prediction struct {
	predicted  int64
	prior      int64
	priorLiked bool
	appliedAt  time.Time
}

// ToggleLikeOptimistic applies the local like toggle prediction before the
// network request is issued. Returns the predicted liked state.
func (s *Store) ToggleLikeOptimistic(postId feedid.ID) (liked bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.items[postId]
	if !found {
		return false, false
	}

	key := predictionKey{postId, FieldLikesCount}
	p, pending := s.predictions[key]
	if !pending {
		p = prediction{prior: item.LikesCount, priorLiked: item.Liked}
	}

	liked = !item.Liked
	predicted := item.LikesCount - 1
	if liked {
		predicted = item.LikesCount + 1
	}
	predicted = clampCount(predicted)

	p.predicted = predicted
	p.appliedAt = time.Now()
	s.predictions[key] = p

	item.Liked = liked
	item.LikesCount = predicted

	return liked, true
}

// ConfirmLike applies the authoritative result of the like-toggle request.
// The prediction is cleared immediately rather than waiting for the
// broadcast echo, which may be slower or never arrive. If the post was
// unmounted while the request was in flight the result is discarded.
func (s *Store) ConfirmLike(postId feedid.ID, liked bool, likesCount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.predictions, predictionKey{postId, FieldLikesCount})

	item, ok := s.items[postId]
	if !ok {
		return
	}
	item.Liked = liked
	item.LikesCount = clampCount(likesCount)
}

// RollbackLike reverts a failed like-toggle to the pre-action state. The
// prediction is always cleared, never left stuck.
func (s *Store) RollbackLike(postId feedid.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := predictionKey{postId, FieldLikesCount}
	p, pending := s.predictions[key]
	delete(s.predictions, key)
	if !pending {
		return
	}

	if item, ok := s.items[postId]; ok {
		item.Liked = p.priorLiked
		item.LikesCount = p.prior
	}
}

// ShareOptimistic predicts the share count bump before the request is
// issued.
func (s *Store) ShareOptimistic(postId feedid.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.items[postId]
	if !found || item.Shared {
		return false
	}

	key := predictionKey{postId, FieldSharesCount}
	p, pending := s.predictions[key]
	if !pending {
		p = prediction{prior: item.SharesCount}
	}
	p.predicted = item.SharesCount + 1
	p.appliedAt = time.Now()
	s.predictions[key] = p

	item.Shared = true
	item.SharesCount = p.predicted

	return true
}

func (s *Store) ConfirmShare(postId feedid.ID, sharesCount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.predictions, predictionKey{postId, FieldSharesCount})

	if item, ok := s.items[postId]; ok {
		item.Shared = true
		item.SharesCount = clampCount(sharesCount)
	}
}

func (s *Store) RollbackShare(postId feedid.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := predictionKey{postId, FieldSharesCount}
	p, pending := s.predictions[key]
	delete(s.predictions, key)
	if !pending {
		return
	}

	if item, ok := s.items[postId]; ok {
		item.Shared = false
		item.SharesCount = p.prior
	}
}

// PendingPrediction reports whether an optimistic value is still awaiting
// confirmation for the entity/field pair.
func (s *Store) PendingPrediction(entityId feedid.ID, field Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.predictions[predictionKey{entityId, field}]
	return ok
}

package client

import (
	"testing"

	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimisticLike_RoundTrip(t *testing.T) {
	// Scenario: like a post, server confirms the same count before any
	// broadcast arrives; the eventual echo must not double anything.
	s := NewStore()
	item := feedItem(10)
	item.Post.LikesCount = 3
	s.Load([]structs.FeedItemView{item})

	liked, ok := s.ToggleLikeOptimistic(10)
	require.True(t, ok)
	assert.True(t, liked)

	got, _ := s.Item(10)
	assert.Equal(t, int64(4), got.LikesCount)
	assert.True(t, s.PendingPrediction(10, FieldLikesCount))

	// Server response is authoritative and clears the prediction
	s.ConfirmLike(10, true, 4)
	assert.False(t, s.PendingPrediction(10, FieldLikesCount))

	// Broadcast echo of the same action
	s.Apply(events.PostLikesUpdated{PostId: 10, LikesCount: 4})

	got, _ = s.Item(10)
	assert.True(t, got.Liked)
	assert.Equal(t, int64(4), got.LikesCount, "indistinguishable from no optimistic step")
}

func TestOptimisticLike_EnvelopeClearsPrediction(t *testing.T) {
	s := NewStore()
	item := feedItem(10)
	item.Post.LikesCount = 3
	s.Load([]structs.FeedItemView{item})

	s.ToggleLikeOptimistic(10)
	require.True(t, s.PendingPrediction(10, FieldLikesCount))

	// The matching envelope supersedes the prediction
	s.Apply(events.PostLikesUpdated{PostId: 10, LikesCount: 4})
	assert.False(t, s.PendingPrediction(10, FieldLikesCount))

	got, _ := s.Item(10)
	assert.Equal(t, int64(4), got.LikesCount)
	assert.True(t, got.Liked, "liked flag stays local")
}

func TestOptimisticLike_RollbackRestoresPriorState(t *testing.T) {
	s := NewStore()
	item := feedItem(10)
	item.Post.LikesCount = 3
	s.Load([]structs.FeedItemView{item})

	s.ToggleLikeOptimistic(10)
	got, _ := s.Item(10)
	require.Equal(t, int64(4), got.LikesCount)

	// Request failed: visibly revert, never leave the prediction stuck
	s.RollbackLike(10)

	got, _ = s.Item(10)
	assert.False(t, got.Liked)
	assert.Equal(t, int64(3), got.LikesCount)
	assert.False(t, s.PendingPrediction(10, FieldLikesCount))
}

func TestOptimisticLike_RapidToggleSupersedes(t *testing.T) {
	s := NewStore()
	item := feedItem(10)
	item.Post.LikesCount = 3
	s.Load([]structs.FeedItemView{item})

	// like, then unlike before the first request resolves
	s.ToggleLikeOptimistic(10)
	s.ToggleLikeOptimistic(10)

	got, _ := s.Item(10)
	assert.False(t, got.Liked)
	assert.Equal(t, int64(3), got.LikesCount)

	// Only one prediction is live; rollback restores the original state,
	// not the intermediate one
	s.RollbackLike(10)
	got, _ = s.Item(10)
	assert.False(t, got.Liked)
	assert.Equal(t, int64(3), got.LikesCount)
}

func TestOptimisticLike_NeverNegative(t *testing.T) {
	s := NewStore()
	item := feedItem(10)
	item.Liked = true
	item.Post.LikesCount = 0 // inconsistent input from the collaborator
	s.Load([]structs.FeedItemView{item})

	liked, ok := s.ToggleLikeOptimistic(10)
	require.True(t, ok)
	assert.False(t, liked)

	got, _ := s.Item(10)
	assert.Equal(t, int64(0), got.LikesCount)
}

func TestOptimisticLike_UnmountedPostDiscardsResult(t *testing.T) {
	s := NewStore()
	s.Load([]structs.FeedItemView{feedItem(10)})

	s.ToggleLikeOptimistic(10)
	s.RemoveItem(10)

	// In-flight request completes after unmount: result discarded, no item
	// resurrected, prediction gone
	s.ConfirmLike(10, true, 1)
	_, ok := s.Item(10)
	assert.False(t, ok)
	assert.False(t, s.PendingPrediction(10, FieldLikesCount))
}

func TestOptimisticShare_ConfirmAndRollback(t *testing.T) {
	s := NewStore()
	item := feedItem(10)
	item.Post.SharesCount = 1
	s.Load([]structs.FeedItemView{item})

	require.True(t, s.ShareOptimistic(10))
	got, _ := s.Item(10)
	assert.True(t, got.Shared)
	assert.Equal(t, int64(2), got.SharesCount)

	// Already-shared guard
	assert.False(t, s.ShareOptimistic(10))

	s.RollbackShare(10)
	got, _ = s.Item(10)
	assert.False(t, got.Shared)
	assert.Equal(t, int64(1), got.SharesCount)

	require.True(t, s.ShareOptimistic(10))
	s.ConfirmShare(10, 2)
	got, _ = s.Item(10)
	assert.True(t, got.Shared)
	assert.Equal(t, int64(2), got.SharesCount)
	assert.False(t, s.PendingPrediction(10, FieldSharesCount))
}

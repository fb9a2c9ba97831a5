package client

import (
	"testing"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentTree_InitialLoadNestsReplies(t *testing.T) {
	root := comment(1, nil, "root")
	root.CreatedAt = 100
	root.Replies = []structs.CommentView{comment(2, ref(1), "re")}

	tree := newCommentTree([]structs.CommentView{root})

	require.Equal(t, 1, tree.Len())
	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Len(t, roots[0].Replies, 1)
}

func TestCommentTree_MergeNormalizesMissingFields(t *testing.T) {
	tree := newCommentTree(nil)

	// nil Replies on the incoming comment never leaks into the tree
	tree.merge(structs.CommentView{Id: 1, Content: "bare"})

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.NotNil(t, roots[0].Replies)
}

func TestCommentTree_DisplayNewestFirst(t *testing.T) {
	tree := newCommentTree(nil)

	old := comment(1, nil, "old")
	old.CreatedAt = 100
	recent := comment(2, nil, "recent")
	recent.CreatedAt = 200
	tree.merge(old)
	tree.merge(recent)

	reOld := comment(3, ref(1), "re old")
	reOld.CreatedAt = 150
	reNew := comment(4, ref(1), "re new")
	reNew.CreatedAt = 250
	tree.merge(reOld)
	tree.merge(reNew)

	display := tree.Display()
	require.Len(t, display, 2)
	assert.Equal(t, feedid.ID(2), display[0].Id)
	assert.Equal(t, feedid.ID(1), display[1].Id)
	require.Len(t, display[1].Replies, 2)
	assert.Equal(t, feedid.ID(4), display[1].Replies[0].Id)
	assert.Equal(t, feedid.ID(3), display[1].Replies[1].Id)
}

func TestCommentTree_ReplyNeverCarriesReplies(t *testing.T) {
	tree := newCommentTree(nil)
	tree.merge(comment(1, nil, "root"))

	re := comment(2, ref(1), "re")
	re.Replies = []structs.CommentView{comment(3, ref(2), "nested?")}
	tree.merge(re)

	roots := tree.Roots()
	require.Len(t, roots[0].Replies, 1)
	assert.Empty(t, roots[0].Replies[0].Replies)
}

package posts

import (
	"testing"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActor(id feedid.ID) structs.ActorView {
	return structs.ActorView{Id: id, Name: "user"}
}

func TestNestComments(t *testing.T) {
	parentId := feedid.ID(1)
	flat := []Comment{
		{Id: 1, PostId: 10, AuthorId: 2, Content: "root a", CreatedAt: 100},
		{Id: 2, PostId: 10, AuthorId: 3, Content: "root b", CreatedAt: 200},
		{Id: 3, PostId: 10, ParentId: &parentId, AuthorId: 3, Content: "re a", CreatedAt: 300},
	}

	tree := NestComments(flat, testActor)

	require.Len(t, tree, 2)
	assert.Equal(t, feedid.ID(1), tree[0].Id)
	assert.Equal(t, feedid.ID(2), tree[1].Id)

	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, feedid.ID(3), tree[0].Replies[0].Id)
	assert.Empty(t, tree[1].Replies)
}

func TestNestComments_OrphanReplySkipped(t *testing.T) {
	missing := feedid.ID(99)
	flat := []Comment{
		{Id: 1, PostId: 10, Content: "root"},
		{Id: 2, PostId: 10, ParentId: &missing, Content: "orphan"},
	}

	tree := NestComments(flat, testActor)

	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Replies)
}

func TestNestComments_Empty(t *testing.T) {
	tree := NestComments(nil, testActor)
	assert.Empty(t, tree)
}

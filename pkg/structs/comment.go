package structs

import "github.com/driftsocial/server/pkg/feedid"

// CommentView is the comment shape carried by envelopes and the initial
// page load. Replies is only populated on root comments (ParentId == nil);
// the tree is exactly two levels deep.
type CommentView struct {
	Id        feedid.ID     `json:"id" msgpack:"id"`
	PostId    feedid.ID     `json:"post_id" msgpack:"post_id"`
	ParentId  *feedid.ID    `json:"parent_id" msgpack:"parent_id"`
	Content   string        `json:"content" msgpack:"content"`
	CreatedAt int64         `json:"created_at" msgpack:"created_at"`
	User      ActorView     `json:"user" msgpack:"user"`
	Replies   []CommentView `json:"replies" msgpack:"replies"`
}

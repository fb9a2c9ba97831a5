package structs

import "github.com/driftsocial/server/pkg/feedid"

const (
	PostVisibilityPublic    = "public"
	PostVisibilityFollowers = "followers"
	PostVisibilityPrivate   = "private"
)

type PostView struct {
	Id         feedid.ID `json:"id" msgpack:"id"`
	Author     ActorView `json:"author" msgpack:"author"`
	Content    string    `json:"content" msgpack:"content"`
	ImageUrl   string    `json:"image_url,omitempty" msgpack:"image_url,omitempty"`
	Visibility string    `json:"visibility" msgpack:"visibility"`
	CreatedAt  int64     `json:"created_at" msgpack:"created_at"`
	EditedAt   *int64    `json:"edited_at,omitempty" msgpack:"edited_at,omitempty"`

	LikesCount    int64 `json:"likes_count" msgpack:"likes_count"`
	CommentsCount int64 `json:"comments_count" msgpack:"comments_count"`
	SharesCount   int64 `json:"shares_count" msgpack:"shares_count"`
}

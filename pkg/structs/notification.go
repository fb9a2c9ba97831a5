package structs

import "github.com/driftsocial/server/pkg/feedid"

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeReply   = "reply"
	NotificationTypeShare   = "share"
	NotificationTypeFollow  = "follow"
)

type NotificationView struct {
	Id        feedid.ID  `json:"id" msgpack:"id"`
	UserId    feedid.ID  `json:"user_id" msgpack:"user_id"`
	Type      string     `json:"type" msgpack:"type"`
	Actor     ActorView  `json:"actor" msgpack:"actor"`
	PostId    *feedid.ID `json:"post_id,omitempty" msgpack:"post_id,omitempty"`
	Preview   string     `json:"preview,omitempty" msgpack:"preview,omitempty"`
	Read      bool       `json:"read" msgpack:"read"`
	CreatedAt int64      `json:"created_at" msgpack:"created_at"`
}

package events

import (
	"encoding/json"
	"fmt"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/vmihailenco/msgpack/v5"
)

// Envelope kind discriminators. These are the event names on the wire and
// must never change without a protocol version bump.
const (
	KindPostLikesUpdated        = "PostLikesUpdated"
	KindPostCommentCreated      = "PostCommentCreated"
	KindPostShared              = "PostShared"
	KindPostUpdated             = "PostUpdated"
	KindPostDeleted             = "PostDeleted"
	KindUserNotificationCreated = "UserNotificationCreated"
)

// Envelope is one broadcastable domain event. Every field is a snapshot
// taken at publish time, never a live reference.
type Envelope interface {
	Kind() string
}

type PostLikesUpdated struct {
	PostId     feedid.ID `json:"post_id" msgpack:"post_id"`
	LikesCount int64     `json:"likes_count" msgpack:"likes_count"`
}

type PostCommentCreated struct {
	PostId        feedid.ID           `json:"post_id" msgpack:"post_id"`
	CommentsCount int64               `json:"comments_count" msgpack:"comments_count"`
	Comment       structs.CommentView `json:"comment" msgpack:"comment"`
}

type PostShared struct {
	PostId      feedid.ID  `json:"post_id" msgpack:"post_id"`
	SharesCount int64      `json:"shares_count" msgpack:"shares_count"`
	SharedBy    *feedid.ID `json:"shared_by,omitempty" msgpack:"shared_by,omitempty"`
}

type PostUpdated struct {
	Post structs.PostView `json:"post" msgpack:"post"`
}

type PostDeleted struct {
	PostId feedid.ID `json:"post_id" msgpack:"post_id"`
}

type UserNotificationCreated struct {
	Notification structs.NotificationView `json:"notification" msgpack:"notification"`
}

func (PostLikesUpdated) Kind() string        { return KindPostLikesUpdated }
func (PostCommentCreated) Kind() string      { return KindPostCommentCreated }
func (PostShared) Kind() string              { return KindPostShared }
func (PostUpdated) Kind() string             { return KindPostUpdated }
func (PostDeleted) Kind() string             { return KindPostDeleted }
func (UserNotificationCreated) Kind() string { return KindUserNotificationCreated }

// frame is the pub/sub wire shape: the kind tag plus the msgpack-encoded
// envelope body.
type frame struct {
	Kind string             `msgpack:"kind"`
	Data msgpack.RawMessage `msgpack:"data"`
}

func Encode(e Envelope) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&frame{Kind: e.Kind(), Data: data})
}

func Decode(b []byte) (Envelope, error) {
	var f frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return decodeBody(f.Kind, func(v interface{}) error {
		return msgpack.Unmarshal(f.Data, v)
	})
}

// DecodeJSON decodes an envelope body that travelled as JSON (the gateway
// re-encodes envelopes as JSON packets for websocket clients).
func DecodeJSON(kind string, data []byte) (Envelope, error) {
	return decodeBody(kind, func(v interface{}) error {
		return json.Unmarshal(data, v)
	})
}

func decodeBody(kind string, unmarshal func(interface{}) error) (Envelope, error) {
	switch kind {
	case KindPostLikesUpdated:
		var e PostLikesUpdated
		err := unmarshal(&e)
		return e, err
	case KindPostCommentCreated:
		var e PostCommentCreated
		err := unmarshal(&e)
		return e, err
	case KindPostShared:
		var e PostShared
		err := unmarshal(&e)
		return e, err
	case KindPostUpdated:
		var e PostUpdated
		err := unmarshal(&e)
		return e, err
	case KindPostDeleted:
		var e PostDeleted
		err := unmarshal(&e)
		return e, err
	case KindUserNotificationCreated:
		var e UserNotificationCreated
		err := unmarshal(&e)
		return e, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

package events

import (
	"encoding/json"
	"testing"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_DispatchesByKind(t *testing.T) {
	actor := feedid.ID(3)
	cases := []Envelope{
		PostLikesUpdated{PostId: 1, LikesCount: 4},
		PostCommentCreated{PostId: 1, CommentsCount: 2, Comment: structs.CommentView{
			Id:      9,
			PostId:  1,
			Content: "hi",
			User:    structs.ActorView{Id: 3, Name: "Bo"},
		}},
		PostShared{PostId: 1, SharesCount: 5, SharedBy: &actor},
		PostUpdated{Post: structs.PostView{Id: 1, Content: "hello"}},
		PostDeleted{PostId: 1},
		UserNotificationCreated{Notification: structs.NotificationView{Id: 8, UserId: 2, Type: structs.NotificationTypeLike}},
	}

	for _, e := range cases {
		t.Run(e.Kind(), func(t *testing.T) {
			b, err := Encode(e)
			require.NoError(t, err)

			decoded, err := Decode(b)
			require.NoError(t, err)
			assert.Equal(t, e.Kind(), decoded.Kind())
			assert.Equal(t, e, decoded)
		})
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	b, err := Encode(PostDeleted{PostId: 1})
	require.NoError(t, err)
	_, err = Decode(b)
	require.NoError(t, err)

	_, err = decodeBody("PostExploded", func(v interface{}) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeJSON_GatewayFrame(t *testing.T) {
	// The gateway re-encodes envelopes as JSON for websocket clients
	body, err := json.Marshal(PostLikesUpdated{PostId: 10, LikesCount: 3})
	require.NoError(t, err)

	e, err := DecodeJSON(KindPostLikesUpdated, body)
	require.NoError(t, err)

	likes, ok := e.(PostLikesUpdated)
	require.True(t, ok)
	assert.Equal(t, feedid.ID(10), likes.PostId)
	assert.Equal(t, int64(3), likes.LikesCount)
}

// The wire tags are part of the subscriber contract.
func TestKindStrings(t *testing.T) {
	assert.Equal(t, "PostLikesUpdated", PostLikesUpdated{}.Kind())
	assert.Equal(t, "PostCommentCreated", PostCommentCreated{}.Kind())
	assert.Equal(t, "PostShared", PostShared{}.Kind())
	assert.Equal(t, "PostUpdated", PostUpdated{}.Kind())
	assert.Equal(t, "PostDeleted", PostDeleted{}.Kind())
	assert.Equal(t, "UserNotificationCreated", UserNotificationCreated{}.Kind())
}

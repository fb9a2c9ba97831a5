package events

import (
	"context"
	"log"

	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/rdb"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/getsentry/sentry-go"
)

// Emit functions are called once per committed write, with counter values
// read fresh from the stored entity. Delivery is best-effort: a publish
// failure is reported and dropped, never surfaced into the write path.

func EmitPostLikesUpdated(postId feedid.ID, likesCount int64) {
	publish(PostChannel(postId), PostLikesUpdated{
		PostId:     postId,
		LikesCount: likesCount,
	})
}

func EmitPostCommentCreated(postId feedid.ID, commentsCount int64, comment structs.CommentView) {
	publish(PostChannel(postId), PostCommentCreated{
		PostId:        postId,
		CommentsCount: commentsCount,
		Comment:       comment,
	})
}

func EmitPostShared(postId feedid.ID, sharesCount int64, sharedBy *feedid.ID) {
	publish(PostChannel(postId), PostShared{
		PostId:      postId,
		SharesCount: sharesCount,
		SharedBy:    sharedBy,
	})
}

func EmitPostUpdated(post structs.PostView) {
	e := PostUpdated{Post: post}
	publish(PostChannel(post.Id), e)
	publish(PostsChannel(), e)
}

func EmitPostDeleted(postId feedid.ID) {
	e := PostDeleted{PostId: postId}
	publish(PostChannel(postId), e)
	publish(PostsChannel(), e)
}

func EmitUserNotificationCreated(notification structs.NotificationView) {
	publish(NotificationChannel(notification.UserId), UserNotificationCreated{
		Notification: notification,
	})
}

func publish(channel string, e Envelope) {
	// Marshal envelope
	b, err := Encode(e)
	if err != nil {
		log.Println("encode envelope:", err)
		sentry.CaptureException(err)
		return
	}

	// Send envelope
	if err := rdb.Client.Publish(context.TODO(), channel, b).Err(); err != nil {
		log.Println("publish envelope:", err)
		sentry.CaptureException(err)
	}
}

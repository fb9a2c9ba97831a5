package posts

import (
	"context"
	"time"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/notifications"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/driftsocial/server/pkg/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Like struct {
	Id        LikeIdCompound `bson:"_id"`
	CreatedAt int64          `bson:"created_at"`
}

type LikeIdCompound struct {
	PostId feedid.ID `bson:"post"`
	UserId feedid.ID `bson:"user"`
}

// ToggleLike flips the actor's like on the post and returns the resulting
// state plus the authoritative count. The count in the broadcast is the
// stored post-update value, never a client-side increment.
func (p *Post) ToggleLike(actor users.User) (liked bool, likesCount int64, err error) {
	like := Like{
		Id:        LikeIdCompound{PostId: p.Id, UserId: actor.Id},
		CreatedAt: time.Now().UnixMilli(),
	}

	delta := int64(1)
	liked = true
	_, err = db.Likes.InsertOne(context.TODO(), like)
	if mongo.IsDuplicateKeyError(err) {
		// Already liked: this toggle is an unlike
		if _, err = db.Likes.DeleteOne(context.TODO(), bson.M{"_id": like.Id}); err != nil {
			return false, p.LikesCount, err
		}
		delta = -1
		liked = false
	} else if err != nil {
		return false, p.LikesCount, err
	}

	// Bump the counter and read the stored value back in one step
	err = db.Posts.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": p.Id},
		bson.M{"$inc": bson.M{"likes_count": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err == mongo.ErrNoDocuments {
		return liked, 0, ErrPostNotFound
	} else if err != nil {
		return liked, p.LikesCount, err
	}
	if p.LikesCount < 0 {
		p.LikesCount = 0
	}

	events.EmitPostLikesUpdated(p.Id, p.LikesCount)

	if liked {
		notifications.Create(p.AuthorId, structs.NotificationTypeLike, actor, &p.Id, preview(p.Content))
	}

	return liked, p.LikesCount, nil
}

func HasLiked(postId feedid.ID, userId feedid.ID) (bool, error) {
	count, err := db.Likes.CountDocuments(
		context.TODO(),
		bson.M{"_id": LikeIdCompound{PostId: postId, UserId: userId}},
	)
	return count > 0, err
}

// preview truncates notification preview text on a rune boundary.
func preview(content string) string {
	const max = 80
	count := 0
	for i := range content {
		if count == max {
			return content[:i]
		}
		count++
	}
	return content
}

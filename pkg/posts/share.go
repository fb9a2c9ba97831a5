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

type Share struct {
	Id        ShareIdCompound `bson:"_id"`
	CreatedAt int64           `bson:"created_at"`
}

type ShareIdCompound struct {
	PostId feedid.ID `bson:"post"`
	UserId feedid.ID `bson:"user"`
}

// SharePost records one share per user per post and broadcasts the stored
// count.
func (p *Post) SharePost(actor users.User) (sharesCount int64, err error) {
	share := Share{
		Id:        ShareIdCompound{PostId: p.Id, UserId: actor.Id},
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err = db.Shares.InsertOne(context.TODO(), share)
	if mongo.IsDuplicateKeyError(err) {
		return p.SharesCount, ErrAlreadyShared
	} else if err != nil {
		return p.SharesCount, err
	}

	err = db.Posts.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": p.Id},
		bson.M{"$inc": bson.M{"shares_count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err == mongo.ErrNoDocuments {
		return 0, ErrPostNotFound
	} else if err != nil {
		return p.SharesCount, err
	}

	sharedBy := actor.Id
	events.EmitPostShared(p.Id, p.SharesCount, &sharedBy)

	notifications.Create(p.AuthorId, structs.NotificationTypeShare, actor, &p.Id, preview(p.Content))

	return p.SharesCount, nil
}

func HasShared(postId feedid.ID, userId feedid.ID) (bool, error) {
	count, err := db.Shares.CountDocuments(
		context.TODO(),
		bson.M{"_id": ShareIdCompound{PostId: postId, UserId: userId}},
	)
	return count > 0, err
}

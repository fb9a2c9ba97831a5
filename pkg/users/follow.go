package users

import (
	"context"
	"time"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/feedid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Follow struct {
	Id        FollowIdCompound `bson:"_id"`
	CreatedAt int64            `bson:"created_at"`
}

type FollowIdCompound struct {
	From feedid.ID `bson:"from"`
	To   feedid.ID `bson:"to"`
}

func (u *User) Follow(toId feedid.ID) error {
	if toId == u.Id {
		return ErrSelfFollow
	}

	follow := Follow{
		Id:        FollowIdCompound{From: u.Id, To: toId},
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err := db.Follows.InsertOne(context.TODO(), follow)
	if mongo.IsDuplicateKeyError(err) {
		err = nil // already following, no-op
	}
	return err
}

func (u *User) Unfollow(toId feedid.ID) error {
	_, err := db.Follows.DeleteOne(
		context.TODO(),
		bson.M{"_id": FollowIdCompound{From: u.Id, To: toId}},
	)
	return err
}

// FollowedIds returns the ids of every user fromId follows.
func FollowedIds(fromId feedid.ID) ([]feedid.ID, error) {
	cur, err := db.Follows.Find(context.TODO(), bson.M{"_id.from": fromId})
	if err != nil {
		return nil, err
	}

	follows := []Follow{}
	if err := cur.All(context.TODO(), &follows); err != nil {
		return nil, err
	}

	ids := make([]feedid.ID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.Id.To)
	}
	return ids, nil
}

func (u *User) IsFollowing(toId feedid.ID) (bool, error) {
	count, err := db.Follows.CountDocuments(
		context.TODO(),
		bson.M{"_id": FollowIdCompound{From: u.Id, To: toId}},
	)
	return count > 0, err
}

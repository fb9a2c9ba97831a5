package users

import (
	"context"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/feedid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sessions are issued by the external auth service. This package only
// resolves a bearer token to its user.
type Session struct {
	Token     string    `bson:"_id"`
	UserId    feedid.ID `bson:"user"`
	CreatedAt int64     `bson:"created_at"`
}

func GetUserByToken(token string) (User, error) {
	if token == "" {
		return User{}, ErrSessionNotFound
	}

	var session Session
	err := db.Sessions.FindOne(context.TODO(), bson.M{"_id": token}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return User{}, ErrSessionNotFound
	} else if err != nil {
		return User{}, err
	}

	return GetUser(session.UserId)
}

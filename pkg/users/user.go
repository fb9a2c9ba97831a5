package users

import (
	"context"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type User struct {
	Id       feedid.ID `bson:"_id" msgpack:"id"`
	Username string    `bson:"username" msgpack:"username"`
	Name     string    `bson:"name" msgpack:"name"`
	Avatar   string    `bson:"avatar" msgpack:"avatar"`
	Email    *string   `bson:"email,omitempty" msgpack:"email,omitempty"`
	Admin    bool      `bson:"admin,omitempty" msgpack:"admin,omitempty"`
}

func GetUser(id feedid.ID) (User, error) {
	var user User
	err := db.Users.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		err = ErrUserNotFound
	}
	return user, err
}

func GetUserByUsername(username string) (User, error) {
	var user User
	err := db.Users.FindOne(context.TODO(), bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		err = ErrUserNotFound
	}
	return user, err
}

func (u *User) Actor() structs.ActorView {
	return structs.ActorView{
		Id:     u.Id,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

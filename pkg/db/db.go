package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Database *mongo.Database

var (
	Users         *mongo.Collection
	Sessions      *mongo.Collection
	Follows       *mongo.Collection
	Posts         *mongo.Collection
	Comments      *mongo.Collection
	Likes         *mongo.Collection
	Shares        *mongo.Collection
	Notifications *mongo.Collection
	Netblock      *mongo.Collection
)

func Init(uri string, database string) error {
	var err error

	// Connect to MongoDB
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	Client, err = mongo.Connect(context.TODO(), opts)
	if err != nil {
		return err
	}

	// Ping MongoDB
	var result bson.M
	if err := Client.Database("admin").RunCommand(context.TODO(), bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		return err
	}

	// Set database
	Database = Client.Database(database)

	// Set collections
	Users = Database.Collection("users")
	Sessions = Database.Collection("sessions")
	Follows = Database.Collection("follows")
	Posts = Database.Collection("posts")
	Comments = Database.Collection("comments")
	Likes = Database.Collection("likes")
	Shares = Database.Collection("shares")
	Notifications = Database.Collection("notifications")
	Netblock = Database.Collection("netblock")

	return nil
}

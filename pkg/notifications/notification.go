package notifications

import (
	"context"
	"time"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/emails"
	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/driftsocial/server/pkg/users"
	"go.mongodb.org/mongo-driver/bson"
)

type Notification struct {
	Id        feedid.ID  `bson:"_id"`
	UserId    feedid.ID  `bson:"user"`
	Type      string     `bson:"type"`
	ActorId   feedid.ID  `bson:"actor"`
	PostId    *feedid.ID `bson:"post,omitempty"`
	Preview   string     `bson:"preview,omitempty"`
	Read      bool       `bson:"read"`
	CreatedAt int64      `bson:"created_at"`
}

// Create stores a notification for userId, publishes it on the user's
// private channel and sends an optional email. Self-actions never notify.
func Create(userId feedid.ID, notifType string, actor users.User, postId *feedid.ID, preview string) error {
	if userId == actor.Id {
		return nil
	}

	notification := Notification{
		Id:        feedid.GenId(),
		UserId:    userId,
		Type:      notifType,
		ActorId:   actor.Id,
		PostId:    postId,
		Preview:   preview,
		Read:      false,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := db.Notifications.InsertOne(context.TODO(), notification); err != nil {
		return err
	}

	// Broadcast on the user's private channel
	events.EmitUserNotificationCreated(notification.View(actor.Actor()))

	// Email, if the user has one on file
	if recipient, err := users.GetUser(userId); err == nil && recipient.Email != nil {
		emails.SendActivityEmail(notifType, recipient.Name, *recipient.Email, actor.Name, preview)
	}

	return nil
}

func (n *Notification) View(actor structs.ActorView) structs.NotificationView {
	return structs.NotificationView{
		Id:        n.Id,
		UserId:    n.UserId,
		Type:      n.Type,
		Actor:     actor,
		PostId:    n.PostId,
		Preview:   n.Preview,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func GetNotifications(userId feedid.ID, unreadOnly bool, limit int64) ([]structs.NotificationView, error) {
	filter := bson.M{"user": userId}
	if unreadOnly {
		filter["read"] = false
	}

	opts := mongoFindOpts(limit)
	cur, err := db.Notifications.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, err
	}

	notifs := []Notification{}
	if err := cur.All(context.TODO(), &notifs); err != nil {
		return nil, err
	}

	views := []structs.NotificationView{}
	for _, n := range notifs {
		actor := structs.ActorView{Id: n.ActorId}
		if u, err := users.GetUser(n.ActorId); err == nil {
			actor = u.Actor()
		}
		views = append(views, n.View(actor))
	}
	return views, nil
}

func MarkRead(userId feedid.ID, notificationIds []feedid.ID) error {
	filter := bson.M{"user": userId}
	if len(notificationIds) > 0 {
		filter["_id"] = bson.M{"$in": notificationIds}
	}
	_, err := db.Notifications.UpdateMany(
		context.TODO(),
		filter,
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

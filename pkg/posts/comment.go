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

type Comment struct {
	Id        feedid.ID  `bson:"_id"`
	PostId    feedid.ID  `bson:"post"`
	ParentId  *feedid.ID `bson:"parent,omitempty"`
	AuthorId  feedid.ID  `bson:"author"`
	Content   string     `bson:"content"`
	CreatedAt int64      `bson:"created_at"`
}

// CreateComment stores a root comment (parentId == nil) or a reply to a
// root comment. Replies to replies are rejected; the tree is exactly two
// levels deep.
func (p *Post) CreateComment(actor users.User, parentId *feedid.ID, content string) (structs.CommentView, error) {
	var parent *Comment
	if parentId != nil {
		var c Comment
		err := db.Comments.FindOne(
			context.TODO(),
			bson.M{"_id": *parentId, "post": p.Id},
		).Decode(&c)
		if err == mongo.ErrNoDocuments {
			return structs.CommentView{}, ErrCommentNotFound
		} else if err != nil {
			return structs.CommentView{}, err
		}
		if c.ParentId != nil {
			return structs.CommentView{}, ErrReplyDepthExceeded
		}
		parent = &c
	}

	comment := Comment{
		Id:        feedid.GenId(),
		PostId:    p.Id,
		ParentId:  parentId,
		AuthorId:  actor.Id,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := db.Comments.InsertOne(context.TODO(), comment); err != nil {
		return structs.CommentView{}, err
	}

	// Bump the counter and read the stored value back in one step
	err := db.Posts.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": p.Id},
		bson.M{"$inc": bson.M{"comments_count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err == mongo.ErrNoDocuments {
		return structs.CommentView{}, ErrPostNotFound
	} else if err != nil {
		return structs.CommentView{}, err
	}

	view := comment.View(actor.Actor())
	events.EmitPostCommentCreated(p.Id, p.CommentsCount, view)

	if parent != nil {
		notifications.Create(parent.AuthorId, structs.NotificationTypeReply, actor, &p.Id, preview(content))
	} else {
		notifications.Create(p.AuthorId, structs.NotificationTypeComment, actor, &p.Id, preview(content))
	}

	return view, nil
}

func (c *Comment) View(user structs.ActorView) structs.CommentView {
	return structs.CommentView{
		Id:        c.Id,
		PostId:    c.PostId,
		ParentId:  c.ParentId,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		User:      user,
		Replies:   []structs.CommentView{},
	}
}

// GetCommentTree loads all comments for a post and nests replies under
// their root comments, both levels in insertion order.
func GetCommentTree(postId feedid.ID) ([]structs.CommentView, error) {
	cur, err := db.Comments.Find(
		context.TODO(),
		bson.M{"post": postId},
		options.Find().SetSort(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}

	commentList := []Comment{}
	if err := cur.All(context.TODO(), &commentList); err != nil {
		return nil, err
	}

	// Resolve authors once per user
	actors := map[feedid.ID]structs.ActorView{}
	actorFor := func(id feedid.ID) structs.ActorView {
		if a, ok := actors[id]; ok {
			return a
		}
		a := structs.ActorView{Id: id}
		if u, err := users.GetUser(id); err == nil {
			a = u.Actor()
		}
		actors[id] = a
		return a
	}

	return NestComments(commentList, actorFor), nil
}

// NestComments builds the two-level tree from a flat insertion-ordered
// list. Replies whose root is missing are skipped.
func NestComments(commentList []Comment, actorFor func(feedid.ID) structs.ActorView) []structs.CommentView {
	roots := []structs.CommentView{}
	rootIndex := map[feedid.ID]int{}

	for _, c := range commentList {
		if c.ParentId != nil {
			continue
		}
		roots = append(roots, c.View(actorFor(c.AuthorId)))
		rootIndex[c.Id] = len(roots) - 1
	}
	for _, c := range commentList {
		if c.ParentId == nil {
			continue
		}
		i, ok := rootIndex[*c.ParentId]
		if !ok {
			continue
		}
		roots[i].Replies = append(roots[i].Replies, c.View(actorFor(c.AuthorId)))
	}

	return roots
}

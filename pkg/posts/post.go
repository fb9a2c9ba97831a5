package posts

import (
	"context"
	"time"

	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/driftsocial/server/pkg/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Post struct {
	Id         feedid.ID `bson:"_id"`
	AuthorId   feedid.ID `bson:"author"`
	Content    string    `bson:"content"`
	ImageUrl   string    `bson:"image_url,omitempty"`
	Visibility string    `bson:"visibility"`
	CreatedAt  int64     `bson:"created_at"`
	EditedAt   *int64    `bson:"edited_at,omitempty"`

	// Denormalized counters, mutated with $inc inside the same update the
	// fresh publish-time read comes from.
	LikesCount    int64 `bson:"likes_count"`
	CommentsCount int64 `bson:"comments_count"`
	SharesCount   int64 `bson:"shares_count"`
}

func CreatePost(author users.User, content string, imageUrl string, visibility string) (Post, error) {
	if visibility == "" {
		visibility = structs.PostVisibilityPublic
	}

	post := Post{
		Id:         feedid.GenId(),
		AuthorId:   author.Id,
		Content:    content,
		ImageUrl:   imageUrl,
		Visibility: visibility,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if _, err := db.Posts.InsertOne(context.TODO(), post); err != nil {
		return post, err
	}

	// Lifecycle broadcast on the global posts channel
	events.EmitPostUpdated(post.View(author.Actor()))

	return post, nil
}

func GetPost(id feedid.ID) (Post, error) {
	var post Post
	err := db.Posts.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		err = ErrPostNotFound
	}
	return post, err
}

func (p *Post) Update(content *string, imageUrl *string, visibility *string) error {
	set := bson.M{"edited_at": time.Now().UnixMilli()}
	if content != nil {
		set["content"] = *content
	}
	if imageUrl != nil {
		set["image_url"] = *imageUrl
	}
	if visibility != nil {
		set["visibility"] = *visibility
	}

	// Read the updated snapshot back so the envelope never carries stale
	// fields.
	err := db.Posts.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": p.Id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(p)
	if err == mongo.ErrNoDocuments {
		return ErrPostNotFound
	} else if err != nil {
		return err
	}

	events.EmitPostUpdated(p.View(p.authorActor()))

	return nil
}

func (p *Post) Delete() error {
	if _, err := db.Posts.DeleteOne(context.TODO(), bson.M{"_id": p.Id}); err != nil {
		return err
	}

	// Clean up dependents in the background; the post itself is gone either
	// way and subscribers only care about the delete event.
	go func() {
		db.Comments.DeleteMany(context.TODO(), bson.M{"post": p.Id})
		db.Likes.DeleteMany(context.TODO(), bson.M{"_id.post": p.Id})
		db.Shares.DeleteMany(context.TODO(), bson.M{"_id.post": p.Id})
	}()

	events.EmitPostDeleted(p.Id)

	return nil
}

func (p *Post) View(author structs.ActorView) structs.PostView {
	return structs.PostView{
		Id:         p.Id,
		Author:     author,
		Content:    p.Content,
		ImageUrl:   p.ImageUrl,
		Visibility: p.Visibility,
		CreatedAt:  p.CreatedAt,
		EditedAt:   p.EditedAt,

		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
	}
}

func (p *Post) authorActor() structs.ActorView {
	if author, err := users.GetUser(p.AuthorId); err == nil {
		return author.Actor()
	}
	return structs.ActorView{Id: p.AuthorId}
}

// GetFeedItem assembles the full initial-load shape for one post as seen by
// the viewer.
func (p *Post) GetFeedItem(viewer *users.User) (structs.FeedItemView, error) {
	item := structs.FeedItemView{
		Post:     p.View(p.authorActor()),
		Comments: []structs.CommentView{},
	}

	var err error
	item.Comments, err = GetCommentTree(p.Id)
	if err != nil {
		return item, err
	}

	if viewer != nil {
		if item.Liked, err = HasLiked(p.Id, viewer.Id); err != nil {
			return item, err
		}
		if item.Shared, err = HasShared(p.Id, viewer.Id); err != nil {
			return item, err
		}
	}

	return item, nil
}

// VisibleTo reports whether the viewer may see the post. Followers-only
// posts require the viewer to follow the author; private posts are
// author-only.
func (p *Post) VisibleTo(viewer *users.User) (bool, error) {
	switch p.Visibility {
	case structs.PostVisibilityFollowers:
		if viewer == nil {
			return false, nil
		}
		if viewer.Id == p.AuthorId {
			return true, nil
		}
		return viewer.IsFollowing(p.AuthorId)
	case structs.PostVisibilityPrivate:
		return viewer != nil && viewer.Id == p.AuthorId, nil
	default:
		return true, nil
	}
}

type FeedOpts struct {
	BeforeId feedid.ID
	Limit    int64
}

// GetFeed returns the newest-first page of posts with nested comment trees
// and the viewer's liked/shared flags. This is the initial page load the
// reconciliation engine patches from then on.
func GetFeed(viewer *users.User, opts FeedOpts) ([]structs.FeedItemView, error) {
	// Visibility: public posts for everyone, the viewer's own posts, and
	// followers-only posts from authors the viewer follows
	visibility := []bson.M{{"visibility": structs.PostVisibilityPublic}}
	if viewer != nil {
		visibility = append(visibility, bson.M{"author": viewer.Id})
		followed, err := users.FollowedIds(viewer.Id)
		if err != nil {
			return nil, err
		}
		if len(followed) > 0 {
			visibility = append(visibility, bson.M{
				"visibility": structs.PostVisibilityFollowers,
				"author":     bson.M{"$in": followed},
			})
		}
	}

	filter := bson.M{"$or": visibility}
	if opts.BeforeId != 0 {
		filter["_id"] = bson.M{"$lt": opts.BeforeId}
	}
	if opts.Limit <= 0 || opts.Limit > 50 {
		opts.Limit = 25
	}

	cur, err := db.Posts.Find(
		context.TODO(),
		filter,
		options.Find().SetSort(bson.M{"_id": -1}).SetLimit(opts.Limit),
	)
	if err != nil {
		return nil, err
	}

	postList := []Post{}
	if err := cur.All(context.TODO(), &postList); err != nil {
		return nil, err
	}

	items := []structs.FeedItemView{}
	for i := range postList {
		item, err := postList[i].GetFeedItem(viewer)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

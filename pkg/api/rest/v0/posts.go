package v0_rest

import (
	"net/http"
	"strconv"

	"github.com/driftsocial/server/pkg/posts"
	"github.com/driftsocial/server/pkg/users"
	"github.com/go-chi/chi/v5"
)

func PostsRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", getFeed)
	r.Post("/", createPost)

	r.Route("/{postId}", func(r chi.Router) {
		r.Get("/", getPost)
		r.Patch("/", updatePost)
		r.Delete("/", deletePost)

		r.Post("/like", toggleLike)
		r.Post("/share", sharePost)

		r.Get("/comments", getComments)
		r.Post("/comments", createComment)
	})

	return r
}

func getFeed(w http.ResponseWriter, r *http.Request) {
	viewer := getAuthedUser(r)

	opts := feedOpts(r)
	items, err := posts.GetFeed(viewer, opts)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	var nextBefore int64
	if len(items) > 0 && int64(len(items)) == opts.Limit {
		nextBefore = items[len(items)-1].Post.Id
	}

	returnData(w, http.StatusOK, FeedResp{
		Items:      items,
		NextBefore: nextBefore,
	})
}

func createPost(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Ratelimit
	userIdStr := strconv.FormatInt(authedUser.Id, 10)
	if ratelimited("create_post", "user", userIdStr) {
		returnErr(w, http.StatusTooManyRequests, ErrRatelimited, nil)
		return
	}
	ratelimit(w, "create_post", "user", userIdStr, 10, 60)

	// Decode body
	var body CreatePostReq
	if !decodeBody(w, r, &body) {
		return
	}

	// Create post
	post, err := posts.CreatePost(*authedUser, body.Content, body.ImageUrl, body.Visibility)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	item, err := post.GetFeedItem(authedUser)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusCreated, item)
}

func getPost(w http.ResponseWriter, r *http.Request) {
	viewer := getAuthedUser(r)
	post, ok := postFromPath(w, r, viewer)
	if !ok {
		return
	}

	item, err := post.GetFeedItem(viewer)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, item)
}

func updatePost(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	post, ok := postFromPath(w, r, authedUser)
	if !ok {
		return
	}
	if post.AuthorId != authedUser.Id {
		returnErr(w, http.StatusForbidden, ErrForbidden, nil)
		return
	}

	var body UpdatePostReq
	if !decodeBody(w, r, &body) {
		return
	}

	if err := post.Update(body.Content, body.ImageUrl, body.Visibility); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	item, err := post.GetFeedItem(authedUser)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, item)
}

func deletePost(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	post, ok := postFromPath(w, r, authedUser)
	if !ok {
		return
	}
	if post.AuthorId != authedUser.Id {
		returnErr(w, http.StatusForbidden, ErrForbidden, nil)
		return
	}

	if err := post.Delete(); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func postFromPath(w http.ResponseWriter, r *http.Request, viewer *users.User) (posts.Post, bool) {
	postId, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		returnErr(w, http.StatusBadRequest, ErrBadRequest, nil)
		return posts.Post{}, false
	}

	post, err := posts.GetPost(postId)
	if err == posts.ErrPostNotFound {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return posts.Post{}, false
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return posts.Post{}, false
	}

	visible, err := post.VisibleTo(viewer)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return posts.Post{}, false
	}
	if !visible {
		// hidden posts look absent, not forbidden
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return posts.Post{}, false
	}
	return post, true
}

func feedOpts(r *http.Request) posts.FeedOpts {
	opts := posts.FeedOpts{}
	if before := r.URL.Query().Get("before"); before != "" {
		opts.BeforeId, _ = strconv.ParseInt(before, 10, 64)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		opts.Limit, _ = strconv.ParseInt(limit, 10, 64)
	}
	if opts.Limit <= 0 || opts.Limit > 50 {
		opts.Limit = 25
	}
	return opts
}

package v0_rest

import (
	"net/http"
	"strconv"

	"github.com/driftsocial/server/pkg/posts"
)

func getComments(w http.ResponseWriter, r *http.Request) {
	post, ok := postFromPath(w, r, getAuthedUser(r))
	if !ok {
		return
	}

	tree, err := posts.GetCommentTree(post.Id)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, tree)
}

func createComment(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Ratelimit
	userIdStr := strconv.FormatInt(authedUser.Id, 10)
	if ratelimited("create_comment", "user", userIdStr) {
		returnErr(w, http.StatusTooManyRequests, ErrRatelimited, nil)
		return
	}
	ratelimit(w, "create_comment", "user", userIdStr, 20, 60)

	post, ok := postFromPath(w, r, authedUser)
	if !ok {
		return
	}

	// Decode body
	var body CreateCommentReq
	if !decodeBody(w, r, &body) {
		return
	}

	comment, err := post.CreateComment(*authedUser, body.ParentId, body.Content)
	if err == posts.ErrCommentNotFound {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return
	} else if err == posts.ErrReplyDepthExceeded {
		returnErr(w, http.StatusBadRequest, ErrBadRequest, map[string]string{
			"parent_id": "replies cannot be nested",
		})
		return
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	returnData(w, http.StatusCreated, comment)
}

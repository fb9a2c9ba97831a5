package v0_rest

import (
	"net/http"
	"strconv"

	"github.com/driftsocial/server/pkg/posts"
)

func toggleLike(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Ratelimit
	userIdStr := strconv.FormatInt(authedUser.Id, 10)
	if ratelimited("toggle_like", "user", userIdStr) {
		returnErr(w, http.StatusTooManyRequests, ErrRatelimited, nil)
		return
	}
	ratelimit(w, "toggle_like", "user", userIdStr, 30, 60)

	post, ok := postFromPath(w, r, authedUser)
	if !ok {
		return
	}

	// Toggle & return the authoritative count so the client can clear its
	// optimistic prediction without waiting for the broadcast echo
	liked, likesCount, err := post.ToggleLike(*authedUser)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	returnData(w, http.StatusOK, ToggleLikeResp{
		PostId:     post.Id,
		Liked:      liked,
		LikesCount: likesCount,
	})
}

func sharePost(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	post, ok := postFromPath(w, r, authedUser)
	if !ok {
		return
	}

	sharesCount, err := post.SharePost(*authedUser)
	if err == posts.ErrAlreadyShared {
		returnErr(w, http.StatusConflict, ErrAlreadyShared, nil)
		return
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	returnData(w, http.StatusOK, ShareResp{
		PostId:      post.Id,
		SharesCount: sharesCount,
	})
}

package v0_rest

import (
	"net/http"

	"github.com/driftsocial/server/pkg/notifications"
	"github.com/driftsocial/server/pkg/structs"
	"github.com/driftsocial/server/pkg/users"
	"github.com/go-chi/chi/v5"
)

func UsersRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", getUser)
	r.Post("/follow", followUser)
	r.Delete("/follow", unfollowUser)

	return r
}

func userFromPath(w http.ResponseWriter, r *http.Request) (users.User, bool) {
	user, err := users.GetUserByUsername(chi.URLParam(r, "username"))
	if err == users.ErrUserNotFound {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return users.User{}, false
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return users.User{}, false
	}
	return user, true
}

func getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromPath(w, r)
	if !ok {
		return
	}

	resp := UserResp{User: user.Actor()}
	if authedUser := getAuthedUser(r); authedUser != nil {
		var err error
		if resp.Following, err = authedUser.IsFollowing(user.Id); err != nil {
			returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
			return
		}
	}
	returnData(w, http.StatusOK, resp)
}

func followUser(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	target, ok := userFromPath(w, r)
	if !ok {
		return
	}

	if err := authedUser.Follow(target.Id); err == users.ErrSelfFollow {
		returnErr(w, http.StatusBadRequest, ErrBadRequest, nil)
		return
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	notifications.Create(target.Id, structs.NotificationTypeFollow, *authedUser, nil, "")

	returnData(w, http.StatusOK, map[string]bool{"following": true})
}

func unfollowUser(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	target, ok := userFromPath(w, r)
	if !ok {
		return
	}

	if err := authedUser.Unfollow(target.Id); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, map[string]bool{"following": false})
}

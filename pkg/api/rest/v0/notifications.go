package v0_rest

import (
	"net/http"
	"strconv"

	"github.com/driftsocial/server/pkg/notifications"
	"github.com/go-chi/chi/v5"
)

func NotificationsRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", getNotifications)
	r.Post("/read", markNotificationsRead)

	return r
}

func getNotifications(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	var limit int64 = 50
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.ParseInt(l, 10, 64)
	}

	views, err := notifications.GetNotifications(authedUser.Id, unreadOnly, limit)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	returnData(w, http.StatusOK, NotificationsResp{Notifications: views})
}

func markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	var body MarkNotificationsReadReq
	if !decodeBody(w, r, &body) {
		return
	}

	if err := notifications.MarkRead(authedUser.Id, body.NotificationIds); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, map[string]bool{"ok": true})
}

package v0_rest

import (
	"github.com/go-chi/chi/v5"
)

func Router() *chi.Mux {
	r := chi.NewRouter()

	r.Mount("/posts", PostsRouter())
	r.Mount("/notifications", NotificationsRouter())
	r.Mount("/users/{username}", UsersRouter())
	r.Mount("/admin", AdminRouter())

	return r
}

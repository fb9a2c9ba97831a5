package v0_rest

import (
	"net/http"
	"strconv"

	"github.com/driftsocial/server/pkg/networks"
	"github.com/driftsocial/server/pkg/users"
	"github.com/go-chi/chi/v5"
)

func AdminRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Post("/netblocks", createNetblock)
	r.Delete("/netblocks/{blockId}", deleteNetblock)

	return r
}

func requireAdmin(w http.ResponseWriter, r *http.Request) *users.User {
	authedUser := getAuthedUser(r)
	if authedUser == nil {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return nil
	}
	if !authedUser.Admin {
		returnErr(w, http.StatusForbidden, ErrForbidden, nil)
		return nil
	}
	return authedUser
}

func createNetblock(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	// Decode body
	var body CreateNetblockReq
	if !decodeBody(w, r, &body) {
		return
	}

	entry, err := networks.CreateBlock(body.Address, body.ExpiresAt)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusCreated, entry)
}

func deleteNetblock(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	blockId, err := strconv.ParseInt(chi.URLParam(r, "blockId"), 10, 64)
	if err != nil {
		returnErr(w, http.StatusBadRequest, ErrBadRequest, nil)
		return
	}

	entry, err := networks.GetBlock(blockId)
	if err == networks.ErrBlockNotFound {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return
	} else if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}

	if err := networks.DeleteBlock(entry); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnData(w, http.StatusOK, map[string]bool{"deleted": true})
}

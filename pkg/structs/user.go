package structs

import "github.com/driftsocial/server/pkg/feedid"

// ActorView is the minimal user shape embedded in post, comment and
// notification payloads. Display data only.
type ActorView struct {
	Id     feedid.ID `json:"id" msgpack:"id"`
	Name   string    `json:"name" msgpack:"name"`
	Avatar string    `json:"avatar" msgpack:"avatar"`
}

package v0_rest

import "github.com/driftsocial/server/pkg/structs"

type ErrResp struct {
	Error  bool              `json:"error"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

type FeedResp struct {
	Items []structs.FeedItemView `json:"items"`
	// BeforeId for the next page; 0 when this page is the end
	NextBefore int64 `json:"next_before"`
}

type ToggleLikeResp struct {
	PostId     int64 `json:"post_id"`
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type ShareResp struct {
	PostId      int64 `json:"post_id"`
	SharesCount int64 `json:"shares_count"`
}

type UserResp struct {
	User      structs.ActorView `json:"user"`
	Following bool              `json:"following"`
}

type NotificationsResp struct {
	Notifications []structs.NotificationView `json:"notifications"`
}

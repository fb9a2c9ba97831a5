package v0_rest

type CreatePostReq struct {
	Content    string `json:"content" validate:"required,max=4000"`
	ImageUrl   string `json:"image_url" validate:"omitempty,url,max=2048"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

type UpdatePostReq struct {
	Content    *string `json:"content" validate:"omitempty,max=4000"`
	ImageUrl   *string `json:"image_url" validate:"omitempty,url,max=2048"`
	Visibility *string `json:"visibility" validate:"omitempty,oneof=public followers private"`
}

type CreateCommentReq struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentId *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

type MarkNotificationsReadReq struct {
	NotificationIds []int64 `json:"notification_ids"`
}

type CreateNetblockReq struct {
	Address   string `json:"address" validate:"required,cidr"`
	ExpiresAt int64  `json:"expires_at" validate:"omitempty,gt=0"`
}

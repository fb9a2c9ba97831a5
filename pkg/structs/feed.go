package structs

// FeedItemView is one post as served by the initial page load: the post
// snapshot plus the viewer-specific flags and the nested comment tree the
// client patches from then on.
type FeedItemView struct {
	Post     PostView      `json:"post" msgpack:"post"`
	Liked    bool          `json:"liked" msgpack:"liked"`
	Shared   bool          `json:"shared" msgpack:"shared"`
	Comments []CommentView `json:"comments" msgpack:"comments"`
}

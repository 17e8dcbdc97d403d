// Package thread turns a Reddit thread, decoded from its public JSON
// representation, into a flat upvote-ranked transcript. Everything in this
// package is pure: no I/O, no logging, no shared state.
package thread

// Suffix is appended to a post URL to reach its JSON representation.
const Suffix = ".json"

// DeletedAuthor is reported for comments whose author field is absent.
const DeletedAuthor = "[deleted]"

// Body sentinels Reddit leaves behind for moderated or deleted comments.
const (
	bodyDeleted = "[deleted]"
	bodyRemoved = "[removed]"
)

// Thing kinds consumed by the flattener.
const (
	KindPost    = "t3"
	KindComment = "t1"
	KindMore    = "more"
)

// PostMetadata describes the submitted post.
type PostMetadata struct {
	Title     string `json:"title"`
	Body      string `json:"selftext"`
	Author    string `json:"author"`
	Score     int    `json:"score"`
	SourceURL string `json:"url"`
}

// CommentRecord is the flat projection of one comment node.
type CommentRecord struct {
	Body        string  `json:"body"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	Upvotes     int     `json:"upvotes"`
	Downvotes   int     `json:"downvotes"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSubmitter bool    `json:"is_submitter"`
	Permalink   string  `json:"permalink"`
}

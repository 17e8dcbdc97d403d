package thread

import (
	"cmp"
	"slices"
)

// RankByUpvotes returns a copy of comments ordered by descending upvotes.
// Equal counts keep their input order.
func RankByUpvotes(comments []CommentRecord) []CommentRecord {
	ranked := slices.Clone(comments)
	slices.SortStableFunc(ranked, func(a, b CommentRecord) int {
		return cmp.Compare(b.Upvotes, a.Upvotes)
	})
	return ranked
}

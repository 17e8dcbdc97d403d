package thread

import (
	"fmt"
	"strings"
)

var (
	banner  = strings.Repeat("=", 80)
	divider = strings.Repeat("-", 80)
)

// RenderReport lays out the post and its ranked comments as plain text.
// Lines are joined with "\n"; the result has no trailing newline.
func RenderReport(post PostMetadata, comments []CommentRecord) string {
	lines := []string{
		banner,
		"REDDIT POST",
		banner,
		"Title: " + orNA(post.Title),
		"Author: u/" + orNA(post.Author),
		fmt.Sprintf("Score: %d upvotes", post.Score),
		"",
	}

	if post.Body != "" {
		lines = append(lines, "Post Content:", divider, post.Body, "")
	}

	lines = append(lines,
		banner,
		"COMMENTS (Sorted by Upvotes, Highest First)",
		fmt.Sprintf("Total Comments: %d", len(comments)),
		banner,
		"",
	)

	for i, c := range comments {
		lines = append(lines,
			fmt.Sprintf("Comment #%d", i+1),
			divider,
			fmt.Sprintf("Upvotes: %d | Score: %d | Author: u/%s", c.Upvotes, c.Score, c.Author),
		)
		if c.IsSubmitter {
			lines = append(lines, "(Original Poster)")
		}
		lines = append(lines, "", c.Body, "", "")
	}

	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

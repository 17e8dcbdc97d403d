package thread

// FlattenComments walks the comment listing in pre-order (parent before its
// replies, siblings in source order) and returns one record per visible
// comment. Placeholders and deleted or removed comments produce no record,
// but their replies are still visited.
//
// The walk uses an explicit stack, so arbitrarily deep threads cannot
// overflow the goroutine stack.
func FlattenComments(t Thread) []CommentRecord {
	if len(t) < 2 {
		return nil
	}

	var out []CommentRecord
	stack := pushReversed(nil, t[1].Children)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := node.Data
		if d == nil {
			continue
		}
		if rec, ok := project(node); ok {
			out = append(out, rec)
		}
		if d.Replies != nil {
			stack = pushReversed(stack, d.Replies.Children)
		}
	}
	return out
}

// pushReversed appends children in reverse so the first child is popped first.
func pushReversed(stack []Thing, children []Thing) []Thing {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	return stack
}

// project builds a record for node, reporting false for nodes that carry no
// content of their own.
func project(node Thing) (CommentRecord, bool) {
	d := node.Data
	if node.IsPlaceholder() || d.Body == nil {
		return CommentRecord{}, false
	}
	body := *d.Body
	if body == "" || body == bodyDeleted || body == bodyRemoved {
		return CommentRecord{}, false
	}

	author := DeletedAuthor
	if d.Author != nil {
		author = *d.Author
	}
	rec := CommentRecord{
		Body:      body,
		Author:    author,
		Score:     num(d.Score),
		Upvotes:   num(d.Ups),
		Downvotes: num(d.Downs),
		Permalink: str(d.Permalink),
	}
	if d.CreatedUTC != nil {
		rec.CreatedUTC = *d.CreatedUTC
	}
	if d.IsSubmitter != nil {
		rec.IsSubmitter = *d.IsSubmitter
	}
	return rec, true
}

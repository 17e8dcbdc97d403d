package thread

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDecode(t *testing.T, payload string) Thread {
	t.Helper()
	th, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return th
}

const postListing = `{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"title":"T","author":"op"}}]}}`

func commentsThread(t *testing.T, children string) Thread {
	return mustDecode(t, `[`+postListing+`,{"kind":"Listing","data":{"children":[`+children+`]}}]`)
}

func bodies(recs []CommentRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Body
	}
	return out
}

func TestFlattenPreOrder(t *testing.T) {
	th := commentsThread(t, `
		{"kind":"t1","data":{"body":"a","replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"a.1","replies":{"kind":"Listing","data":{"children":[
				{"kind":"t1","data":{"body":"a.1.1","replies":""}}
			]}}}},
			{"kind":"t1","data":{"body":"a.2","replies":""}}
		]}}}},
		{"kind":"t1","data":{"body":"b","replies":""}}
	`)
	got := bodies(FlattenComments(th))
	want := []string{"a", "a.1", "a.1.1", "a.2", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenDeletedParentVisibleReply(t *testing.T) {
	th := commentsThread(t, `
		{"kind":"t1","data":{"body":"[deleted]","author":"[deleted]","replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"hello","author":"replier","ups":3}}
		]}}}}
	`)
	got := FlattenComments(th)
	if len(got) != 1 || got[0].Body != "hello" {
		t.Fatalf("expected exactly [hello], got %+v", got)
	}
}

func TestFlattenSkipButDescend(t *testing.T) {
	th := commentsThread(t, `
		{"kind":"t1","data":{"body":"[removed]","replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"under removed"}}
		]}}}},
		{"kind":"t1","data":{"replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"under missing body"}}
		]}}}},
		{"kind":"more","data":{"count":12,"children":["x1","x2"],"replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"under placeholder"}}
		]}}}},
		{"kind":"t1"},
		{"kind":"t1","data":{"body":""}}
	`)
	got := bodies(FlattenComments(th))
	want := []string{"under removed", "under missing body", "under placeholder"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenNeverEmitsEmptyBody(t *testing.T) {
	th := commentsThread(t, `
		{"kind":"t1","data":{"body":""}},
		{"kind":"t1","data":{"body":"x","replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":""}},
			{"kind":"t1","data":{"body":"[deleted]"}},
			{"kind":"t1","data":{"body":"y"}}
		]}}}}
	`)
	for _, r := range FlattenComments(th) {
		if r.Body == "" {
			t.Fatalf("emitted empty body: %+v", r)
		}
	}
}

func TestFlattenFieldProjection(t *testing.T) {
	th := commentsThread(t, `
		{"kind":"t1","data":{"body":"full","author":"alice","score":7,"ups":9,"downs":2,
			"created_utc":1700000000.5,"is_submitter":true,"permalink":"/r/x/comments/1/t/c1/"}},
		{"kind":"t1","data":{"body":"bare"}}
	`)
	got := FlattenComments(th)
	want := []CommentRecord{
		{Body: "full", Author: "alice", Score: 7, Upvotes: 9, Downvotes: 2, CreatedUTC: 1700000000.5, IsSubmitter: true, Permalink: "/r/x/comments/1/t/c1/"},
		{Body: "bare", Author: DeletedAuthor},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenShortThread(t *testing.T) {
	if got := FlattenComments(nil); len(got) != 0 {
		t.Fatalf("nil thread: got %d records", len(got))
	}
	if got := FlattenComments(mustDecode(t, `[`+postListing+`]`)); len(got) != 0 {
		t.Fatalf("one listing: got %d records", len(got))
	}
	if got := FlattenComments(commentsThread(t, ``)); len(got) != 0 {
		t.Fatalf("empty comment listing: got %d records", len(got))
	}
}

func TestFlattenDeepThread(t *testing.T) {
	const depth = 100000
	root := &Thing{Kind: KindComment}
	cur := root
	for i := 0; i < depth; i++ {
		body := "c"
		child := Thing{Kind: KindComment}
		cur.Data = &ThingData{Body: &body, Replies: &Listing{Children: []Thing{child}}}
		cur = &cur.Data.Replies.Children[0]
	}
	th := Thread{{}, {Children: []Thing{*root}}}
	if got := FlattenComments(th); len(got) != depth {
		t.Fatalf("expected %d records, got %d", depth, len(got))
	}
}

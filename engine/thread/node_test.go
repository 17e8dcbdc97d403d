package thread

import (
	"errors"
	"testing"
)

func TestDecodeEmptyRepliesString(t *testing.T) {
	th, err := Decode([]byte(`[
		{"kind":"Listing","data":{"children":[]}},
		{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"a","replies":""}},
			{"kind":"t1","data":{"body":"b","replies":null}}
		]}}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(th) != 2 || len(th[1].Children) != 2 {
		t.Fatalf("unexpected shape: %+v", th)
	}
	for _, c := range th[1].Children {
		if c.Data.Replies != nil && len(c.Data.Replies.Children) != 0 {
			t.Fatalf("expected no replies, got %+v", c.Data.Replies)
		}
	}
}

func TestDecodeMissingData(t *testing.T) {
	th, err := Decode([]byte(`[{"kind":"Listing"},{"kind":"Listing","data":{"children":[{"kind":"t1"}]}}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(th[0].Children) != 0 {
		t.Fatal("listing without data should have no children")
	}
	if th[1].Children[0].Data != nil {
		t.Fatal("thing without data should have nil Data")
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{`{"kind":"Listing"}`, `not json`, `[1,2]`} {
		_, err := Decode([]byte(in))
		var me *MalformedInputError
		if !errors.As(err, &me) {
			t.Fatalf("Decode(%s): expected MalformedInputError, got %v", in, err)
		}
		if !errors.Is(err, ErrNotThread) {
			t.Fatalf("Decode(%s): expected ErrNotThread in chain", in)
		}
	}
}

func TestThingIsPlaceholder(t *testing.T) {
	if !(Thing{Kind: KindMore}).IsPlaceholder() {
		t.Fatal("more should be a placeholder")
	}
	if (Thing{Kind: KindComment}).IsPlaceholder() {
		t.Fatal("t1 should not be a placeholder")
	}
}

func TestFetchErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := &FetchError{URL: "u", StatusCode: 404, Err: cause}
	if e.Error() != "fetch u: http 404: boom" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("FetchError should unwrap to its cause")
	}
	e2 := &FetchError{URL: "u", Err: cause}
	if e2.Error() != "fetch u: boom" {
		t.Fatalf("unexpected message %q", e2.Error())
	}
}

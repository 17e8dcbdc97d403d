package thread

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Thread is a decoded thread payload: index 0 is the post listing, index 1
// the comment listing.
type Thread []Listing

// Listing is a Reddit "Listing" object.
type Listing struct {
	Children []Thing
}

type listingJSON struct {
	Data *struct {
		Children []Thing `json:"children"`
	} `json:"data"`
}

// UnmarshalJSON accepts a listing object, and also "" or null, which Reddit
// uses for a comment without replies. Both decode to an empty listing.
func (l *Listing) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*l = Listing{}
		return nil
	}
	var raw listingJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("listing: %w", err)
	}
	*l = Listing{}
	if raw.Data != nil {
		l.Children = raw.Data.Children
	}
	return nil
}

// Thing is one child of a listing. Data is nil when the payload is absent.
type Thing struct {
	Kind string     `json:"kind"`
	Data *ThingData `json:"data"`
}

// IsPlaceholder reports whether t is a "load more" stand-in.
func (t Thing) IsPlaceholder() bool { return t.Kind == KindMore }

// ThingData holds the fields of a post or comment payload. Every field is
// optional; nil means the key was missing.
type ThingData struct {
	Title       *string  `json:"title"`
	SelfText    *string  `json:"selftext"`
	Body        *string  `json:"body"`
	Author      *string  `json:"author"`
	Score       *int     `json:"score"`
	Ups         *int     `json:"ups"`
	Downs       *int     `json:"downs"`
	CreatedUTC  *float64 `json:"created_utc"`
	IsSubmitter *bool    `json:"is_submitter"`
	Permalink   *string  `json:"permalink"`
	URL         *string  `json:"url"`
	Replies     *Listing `json:"replies"`
}

// Decode parses a thread payload. Anything other than a JSON array of
// listing objects is reported as a MalformedInputError.
func Decode(b []byte) (Thread, error) {
	var t Thread
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, &MalformedInputError{Reason: "decode", Err: fmt.Errorf("%w: %v", ErrNotThread, err)}
	}
	return t, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

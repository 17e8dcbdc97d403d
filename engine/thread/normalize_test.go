package thread

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://www.reddit.com/r/golang/comments/abc/title", "https://www.reddit.com/r/golang/comments/abc/title.json"},
		{"trailing slash", "https://www.reddit.com/r/golang/comments/abc/title/", "https://www.reddit.com/r/golang/comments/abc/title.json"},
		{"already json", "https://www.reddit.com/r/golang/comments/abc/title.json", "https://www.reddit.com/r/golang/comments/abc/title.json"},
		{"only one slash stripped", "https://x.test/a//", "https://x.test/a/.json"},
		{"empty", "", ".json"},
		{"not a url", "hello", "hello.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdentityOnSuffix(t *testing.T) {
	for _, u := range []string{".json", "a.json", "https://x.test/p/.json", "/.json"} {
		if got := NormalizeURL(u); got != u {
			t.Errorf("NormalizeURL(%q) = %q, want unchanged", u, got)
		}
	}
}

func TestNormalizeURLTrailingSlashEquivalence(t *testing.T) {
	for _, u := range []string{"https://x.test/r/a/comments/1/t", "x", "https://x.test"} {
		if a, b := NormalizeURL(u+"/"), NormalizeURL(u); a != b {
			t.Errorf("with slash %q != without %q", a, b)
		}
	}
}

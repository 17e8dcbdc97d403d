package thread

import "strings"

// NormalizeURL returns the JSON endpoint for a post URL. A URL already ending
// in ".json" is returned unchanged; otherwise one trailing slash is dropped
// and the suffix appended. The URL is not validated.
func NormalizeURL(url string) string {
	if strings.HasSuffix(url, Suffix) {
		return url
	}
	return strings.TrimSuffix(url, "/") + Suffix
}

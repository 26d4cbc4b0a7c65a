package pushclient

import (
	"net/url"
	"strings"
)

// DeepLinkFromResponse returns the page a tapped notification asks the content view to open.
// data is the decoded JSON payload of the notification; only a string "url"
// holding an absolute http(s) URL is accepted.
func DeepLinkFromResponse(data map[string]any) (string, bool) {
	value, ok := data["url"].(string)
	if !ok {
		return "", false
	}
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

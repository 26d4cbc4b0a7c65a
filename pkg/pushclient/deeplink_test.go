package pushclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepLinkFromResponse(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
		ok   bool
	}{
		{"https url", map[string]any{"url": "https://example.com/orders/42"}, "https://example.com/orders/42", true},
		{"trimmed", map[string]any{"url": "  http://example.com/a  "}, "http://example.com/a", true},
		{"missing", map[string]any{"type": "promo"}, "", false},
		{"nil payload", nil, "", false},
		{"relative", map[string]any{"url": "/orders/42"}, "", false},
		{"other scheme", map[string]any{"url": "javascript:alert(1)"}, "", false},
		{"non-string url", map[string]any{"url": 42}, "", false},
		{"nested payload ignored", map[string]any{"url": map[string]any{"href": "https://example.com"}}, "", false},
		{"alongside other fields", map[string]any{"url": "https://example.com/chat/9", "badge": 3.0}, "https://example.com/chat/9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeepLinkFromResponse(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

package errors

import (
	"strings"
	"unicode"
)

// Channel names accepted by the CLI and the HTTP API.
const (
	ChannelStable  = "stable"
	ChannelPreview = "preview"
)

// ValidateChannel validates a release channel name.
// Only "stable" and "preview" are recognized.
func ValidateChannel(channel string) error {
	switch channel {
	case ChannelStable, ChannelPreview:
		return nil
	case "":
		return New(ErrCodeInvalidChannel, "channel cannot be empty")
	default:
		return New(ErrCodeInvalidChannel, "unknown channel %q (expected %q or %q)", channel, ChannelStable, ChannelPreview)
	}
}

// ValidateEndpoint validates an endpoint URL override for safety.
// It ensures the URL has a safe scheme (http or https) and contains
// no control characters.
func ValidateEndpoint(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "endpoint URL cannot be empty")
	}

	const maxURLLength = 2048
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidInput, "endpoint URL too long (max %d characters)", maxURLLength)
	}

	// Check for control characters and null bytes
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "endpoint URL contains invalid control characters")
		}
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "endpoint URL must use http or https scheme")
	}

	return nil
}

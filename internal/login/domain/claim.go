package domain

import "strings"

// Source identifies which messaging platform vouched for an identity claim.
type Source string

const (
	SourceMeta     Source = "FB_MSGR"
	SourceTelegram Source = "TELEGRAM"
	SourceViber    Source = "VIBER"
	SourceSMS      Source = "SMS"
)

// ParseSource maps a wire tag to a Source. Unknown tags deliberately take
// the Meta branch, matching the webhook relay's historical default.
func ParseSource(s string) Source {
	switch Source(strings.ToUpper(strings.TrimSpace(s))) {
	case SourceTelegram:
		return SourceTelegram
	case SourceViber:
		return SourceViber
	case SourceSMS:
		return SourceSMS
	default:
		return SourceMeta
	}
}

// IdentityClaim is an inbound identity assertion from a trusted webhook
// relay: the platform vouches that Username identifies the end user on that
// platform.
type IdentityClaim struct {
	Source       Source
	Username     string
	Mobile       string
	FriendlyName string
}

// DisplayName returns the name to address the user by in result messages.
func (c IdentityClaim) DisplayName() string {
	if c.FriendlyName != "" {
		return c.FriendlyName
	}
	return c.Username
}

// Credentials are a password-form login request.
type Credentials struct {
	Username   string
	Password   string
	RemoteAddr string
	UserAgent  string
}

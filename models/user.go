package models

import (
	"strings"
	"time"
)

// ShareItemPlaceholder is replaced by the movie title in a profile's default share message.
const ShareItemPlaceholder = "[item]"

// Account is the logged-in Trakt account. A nil account means logged out.
type Account struct {
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

// UserProfile models the sharing preferences of the logged-in user.
type UserProfile struct {
	Username            string    `json:"username"`
	Name                string    `json:"name,omitempty"`
	TwitterConnected    bool      `json:"twitterConnected"`
	MastodonConnected   bool      `json:"mastodonConnected"`
	TumblrConnected     bool      `json:"tumblrConnected"`
	DefaultShareMessage string    `json:"defaultShareMessage,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ShareText renders the default share message for a movie title.
func (p *UserProfile) ShareText(title string) string {
	if p == nil || p.DefaultShareMessage == "" {
		return ""
	}
	return strings.ReplaceAll(p.DefaultShareMessage, ShareItemPlaceholder, title)
}

// WatchingType tags what kind of watching session is active.
type WatchingType string

const (
	WatchingCheckin  WatchingType = "checkin"
	WatchingScrobble WatchingType = "scrobble"
)

// WatchingMovie is the movie the user is currently watching.
type WatchingMovie struct {
	Movie     *Movie       `json:"movie"`
	Type      WatchingType `json:"type"`
	StartedAt time.Time    `json:"startedAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// CheckinOptions carries the sharing choices of a check-in.
type CheckinOptions struct {
	Message       string `json:"message,omitempty"`
	ShareTwitter  bool   `json:"shareTwitter"`
	ShareMastodon bool   `json:"shareMastodon"`
	ShareTumblr   bool   `json:"shareTumblr"`
}

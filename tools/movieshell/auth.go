package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cinetrack/config"
	"cinetrack/services/trakt"
)

// tokenRefreshMargin refreshes a token a day before Trakt would expire it.
const tokenRefreshMargin = 24 * time.Hour

func newTraktClient(settings config.TraktSettings) *trakt.Client {
	client := trakt.NewClient(settings.ClientID, settings.ClientSecret)
	if settings.BaseURL != "" {
		client.WithBaseURL(settings.BaseURL)
	}
	return client
}

func storeToken(s *config.Settings, token *trakt.TokenResponse) {
	s.Trakt.AccessToken = token.AccessToken
	s.Trakt.RefreshToken = token.RefreshToken
	s.Trakt.TokenCreatedAt = token.CreatedAt
	s.Trakt.TokenExpiresIn = token.ExpiresIn
}

func tokenNeedsRefresh(t config.TraktSettings, now time.Time) bool {
	if t.AccessToken == "" || t.RefreshToken == "" {
		return false
	}
	expires := t.TokenExpiresAt()
	return !expires.IsZero() && now.Add(tokenRefreshMargin).After(expires)
}

// refreshTokenIfExpired swaps a stored token that expires soon for a new one and saves it. It
// returns settings with the new token, or settings unchanged when nothing was due.
func refreshTokenIfExpired(ctx context.Context, manager *config.Manager, settings config.Settings, client *trakt.Client, now time.Time) (config.Settings, error) {
	if !tokenNeedsRefresh(settings.Trakt, now) {
		return settings, nil
	}
	if !client.HasCredentials() {
		return settings, errors.New("trakt client id and secret are not configured")
	}
	log.Printf("[movieshell] trakt token for %s expires %s, refreshing", settings.Trakt.Username, settings.Trakt.TokenExpiresAt().Format(time.RFC3339))

	token, err := client.RefreshAccessToken(ctx, settings.Trakt.RefreshToken)
	if err != nil {
		return settings, err
	}
	if _, err := manager.Update(func(s *config.Settings) { storeToken(s, token) }); err != nil {
		return settings, fmt.Errorf("save refreshed token: %w", err)
	}
	storeToken(&settings, token)
	return settings, nil
}

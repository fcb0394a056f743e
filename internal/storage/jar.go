package storage

import (
	"context"
	"errors"
	"time"
)

// Cookie names for persisted progress. Values are opaque strings.
const (
	KeyPixelCanvas     = "pixelCanvas"
	KeyGameStats       = "gameStats"
	KeyFavoriteWaifus  = "favoriteWaifus"
	KeyAchievements    = "achievements"
	KeyPrivacyVisited  = "privacyVisited"
	KeyPrivacyAccepted = "privacyAccepted"
	KeySentMessages    = "sentMessages"
	KeyWinStreak       = "winStreak"
)

// DefaultTTL is how long a written cookie stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// MaxCookieBytes is the largest name plus encoded value a browser keeps.
// Larger cookies are dropped without any error on the client side.
const MaxCookieBytes = 4096

var ErrValueTooLarge = errors.New("cookie value too large")

// Keys lists every cookie name the progress layer owns.
func Keys() []string {
	return []string{
		KeyPixelCanvas,
		KeyGameStats,
		KeyFavoriteWaifus,
		KeyAchievements,
		KeyPrivacyVisited,
		KeyPrivacyAccepted,
		KeySentMessages,
		KeyWinStreak,
	}
}

// Jar is a string key/value store with per-entry expiry, shaped after a
// browser cookie store.
type Jar interface {
	// Get returns ok=false when the cookie is missing or expired.
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string, expires time.Time) error
	Remove(ctx context.Context, names ...string) error
}

type Cookie struct {
	Name      string
	Value     string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

func (c Cookie) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

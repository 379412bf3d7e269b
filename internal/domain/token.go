package domain

import "time"

// Token is the session credential persisted in client storage.
// ExpirationTime is epoch milliseconds, matching what the platform's
// token cache writes.
type Token struct {
	Token          string `json:"token"`
	ExpirationTime int64  `json:"expirationTime"`
	RefreshToken   string `json:"refreshToken,omitempty"`
}

// Valid reports whether the token can still be trusted at the given time.
// An expired token is treated the same as an absent one.
func (t Token) Valid(now time.Time) bool {
	return t.Token != "" && t.ExpirationTime > now.UnixMilli()
}

// ExpiresAt converts the stored epoch-millis expiry to a time.Time.
func (t Token) ExpiresAt() time.Time {
	return time.UnixMilli(t.ExpirationTime)
}

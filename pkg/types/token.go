package types

import "time"

// Token is a short-lived credential issued by the platform's token
// service. A Token is owned by the provider that issued it and is
// replaced wholesale on refresh, never mutated in place.
type Token struct {
	// Value is the opaque token string attached to requests.
	Value string `json:"token"`
	// Expires is the expiry instant in Unix milliseconds.
	Expires int64 `json:"expires"`
	// Referer is the client application URL the token is bound to,
	// empty when the token is not referer-bound.
	Referer string `json:"referer,omitempty"`
	// AlwaysUseSSL forces requests carrying this token onto https.
	AlwaysUseSSL bool `json:"ssl"`
}

// IsExpired reports whether the token has expired. A token is expired
// only when it has actually been issued: an empty value or a zero expiry
// means not-yet-issued, which is not the same as expired.
func (t Token) IsExpired() bool {
	if t.Value == "" || t.Expires <= 0 {
		return false
	}
	return !time.UnixMilli(t.Expires).After(time.Now().UTC())
}

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenIsExpired(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		token   Token
		expired bool
	}{
		{
			name:    "zero token is not issued",
			token:   Token{},
			expired: false,
		},
		{
			name:    "empty value is not issued",
			token:   Token{Expires: now.Add(-time.Hour).UnixMilli()},
			expired: false,
		},
		{
			name:    "zero expiry is not issued",
			token:   Token{Value: "abc"},
			expired: false,
		},
		{
			name:    "future expiry is valid",
			token:   Token{Value: "abc", Expires: now.Add(time.Hour).UnixMilli()},
			expired: false,
		},
		{
			name:    "past expiry is expired",
			token:   Token{Value: "abc", Expires: now.Add(-time.Hour).UnixMilli()},
			expired: true,
		},
		{
			name:    "expiry in the past by a millisecond is expired",
			token:   Token{Value: "abc", Expires: now.Add(-time.Millisecond).UnixMilli()},
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.token.IsExpired())
		})
	}
}

func TestCredentialCoupling(t *testing.T) {
	cred := NewCredential("u", "p")
	assert.Equal(t, ClientReferer, cred.Client())
	assert.Equal(t, DefaultTokenExpirationMinutes, cred.ExpirationMinutes)

	cred.SetClient("")
	assert.Empty(t, cred.Client())
	assert.Empty(t, cred.Referer())

	cred.SetReferer("https://app.example.com")
	assert.Equal(t, "https://app.example.com", cred.Referer())
	assert.Equal(t, ClientReferer, cred.Client())

	cred.SetClient("")
	assert.Empty(t, cred.Referer())
}

func TestServerError(t *testing.T) {
	err := &ServerError{Code: 400, Message: "Invalid token"}
	assert.Equal(t, "arcgis error 400: Invalid token", err.Error())

	err = &ServerError{Code: 498, Message: "Token expired", Details: []string{"a", "b"}}
	assert.Equal(t, "arcgis error 498: Token expired (a; b)", err.Error())
}

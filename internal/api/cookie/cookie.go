// Package cookie encodes the remember-me cookie shared between the login
// handler and the silent-login middleware.
package cookie

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Name is the remember-me cookie name.
const Name = "remember-me"

var ErrMalformed = errors.New("malformed remember-me cookie")

// Encode packs a series/token pair into a cookie value. The pair travels
// base64-encoded as "series:token"; both halves are URL-safe base64 themselves
// so the colon is an unambiguous separator.
func Encode(series, token string) string {
	return base64.StdEncoding.EncodeToString([]byte(series + ":" + token))
}

// Decode unpacks a cookie value into its series/token pair.
func Decode(value string) (series, token string, err error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", ErrMalformed
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrMalformed
	}
	return parts[0], parts[1], nil
}

// New builds the remember-me cookie for a series/token pair.
func New(series, token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    Encode(series, token),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Expired builds the cookie that clears a stored remember-me value.
func Expired() *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidToken = fmt.Errorf("invalid or expired token")

// Expiry is how long an access token stays valid.
const Expiry = 24 * time.Hour

type claims struct {
	UserID string `json:"uid"`
	Expiry int64  `json:"exp"`
}

// Sign mints an access token for the given user id: a base64 payload and
// an HMAC-SHA256 signature, dot-separated.
func Sign(userID, secret string, now time.Time) (string, error) {
	payload, err := json.Marshal(claims{
		UserID: userID,
		Expiry: now.Add(Expiry).Unix(),
	})
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + sign(body, secret), nil
}

// Verify checks a token's signature and expiry and returns the embedded
// user id.
func Verify(token, secret string, now time.Time) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	if !hmac.Equal([]byte(sign(parts[0], secret)), []byte(parts[1])) {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}

	c := claims{}
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", ErrInvalidToken
	}

	if c.UserID == "" || now.Unix() >= c.Expiry {
		return "", ErrInvalidToken
	}
	return c.UserID, nil
}

func sign(body, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

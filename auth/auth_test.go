package auth

import (
	"strings"
	"testing"
	"time"
)

const secret = "test-secret"

func TestSignAndVerify(t *testing.T) {
	now := time.Now()

	token, err := Sign("user-1", secret, now)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	uid, err := Verify(token, secret, now)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if uid != "user-1" {
		t.Errorf("Expected user-1, got %s", uid)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Now()
	token, err := Sign("user-1", secret, now)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	parts := strings.Split(token, ".")

	tests := []struct {
		name   string
		token  string
		secret string
		at     time.Time
	}{
		{"garbage", "not-a-token", secret, now},
		{"missing signature", parts[0], secret, now},
		{"tampered payload", "eyJmYWtlIjp0cnVlfQ." + parts[1], secret, now},
		{"tampered signature", parts[0] + ".AAAA", secret, now},
		{"wrong secret", token, "other-secret", now},
		{"expired", token, secret, now.Add(Expiry + time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Verify(tt.token, tt.secret, tt.at); err != ErrInvalidToken {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

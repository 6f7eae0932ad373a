package utils

import (
	"crypto/rand"
	"encoding/base64"
	"unsafe"
)

// Key is the type used for context values.
type Key string

// B2S converts a byte slice to a string without copying.
func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// S2B converts a string to a byte slice without copying.
func S2B(s string) (b []byte) {
	strHeader := (*[2]uintptr)(unsafe.Pointer(&s))
	byteHeader := (*[3]uintptr)(unsafe.Pointer(&b))
	byteHeader[0] = strHeader[0]
	byteHeader[1] = strHeader[1]
	byteHeader[2] = strHeader[1]
	return
}

// GenerateRandomBytes returns securely generated random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateRandomString returns a URL-safe, base64 encoded random string.
func GenerateRandomString(n int) (string, error) {
	b, err := GenerateRandomBytes(n)
	return base64.URLEncoding.EncodeToString(b), err
}

// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid admin token")
)

// BearerToken extracts the credential from an Authorization: Bearer header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrMissingToken
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// ValidateAdminToken compares the provided credential against the
// server-held secret in constant time.
func ValidateAdminToken(provided, secret string) error {
	if secret == "" {
		// A server without a configured secret accepts nobody.
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(provided), []byte(secret)) {
		return ErrInvalidToken
	}
	return nil
}

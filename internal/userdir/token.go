package userdir

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTTL = 5 * time.Minute
	// Tokens are refreshed well before their real expiry so an in-flight
	// request never carries one about to lapse.
	tokenRefreshAfter = 3 * time.Minute
)

type cachedToken struct {
	value    string
	issuedAt time.Time
}

// TokenProvider issues self-signed RS256 service tokens for user-directory
// calls and caches them until shortly before expiry. Concurrent refreshes
// are benign: each produces a valid token and the last write wins.
type TokenProvider struct {
	issuer string
	key    *rsa.PrivateKey
	cached atomic.Pointer[cachedToken]
	now    func() time.Time
}

// NewTokenProvider parses the PEM-encoded RSA private key and builds the
// provider.
func NewTokenProvider(issuer, privateKeyPEM string) (*TokenProvider, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("failed to decode private key PEM")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		parsed, pkcs8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if pkcs8Err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		rsaKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not an RSA key")
		}
		key = rsaKey
	}

	return &TokenProvider{issuer: issuer, key: key, now: time.Now}, nil
}

// GetToken returns a cached token, regenerating transparently on first use
// or once the refresh window has passed.
func (p *TokenProvider) GetToken() (string, error) {
	if cached := p.cached.Load(); cached != nil && p.now().Sub(cached.issuedAt) < tokenRefreshAfter {
		return cached.value, nil
	}
	return p.generate()
}

func (p *TokenProvider) generate() (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"iss": p.issuer,
		"sub": "notification-service",
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"roles": []string{
			"um:reader",
			"um:application-client",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	p.cached.Store(&cachedToken{value: signed, issuedAt: now})
	return signed, nil
}

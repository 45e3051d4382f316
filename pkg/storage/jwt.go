package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TransferClaims are the claims of a signed transfer URL.
type TransferClaims struct {
	jwt.RegisteredClaims
	Method string `json:"method"`
}

// JWTSigner signs URLs for a blob host with HMAC-SHA256 JSON Web Tokens.
// The object key is the token subject and the token is passed in the
// "token" query parameter. The blob host verifies the token with the shared
// secret: issuer, subject, expiry and the method claim.
type JWTSigner struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

var _ Signer = (*JWTSigner)(nil)

// NewJWTSigner returns a signer for URLs under baseURL.
func NewJWTSigner(baseURL string, secret []byte) (*JWTSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New("missing signing secret")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid public url: %w", err)
	}
	return &JWTSigner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}, nil
}

// Sign implements Signer.
func (s *JWTSigner) Sign(_ context.Context, key string, method string, expiry time.Duration) (string, error) {
	if err := checkMethod(method); err != nil {
		return "", err
	}

	now := s.now()
	claims := TransferClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.baseURL,
			Subject:   key,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Method: method,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return s.baseURL + "/objects/" + key + "?" + url.Values{"token": {token}}.Encode(), nil
}

// Local pairs a LocalStorage with a JWTSigner.
type Local struct {
	*LocalStorage
	*JWTSigner
}

var _ Backend = Local{}

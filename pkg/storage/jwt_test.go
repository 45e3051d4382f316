package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matryer/is"
)

// parseTransferToken checks a token the way the blob host does.
func parseTransferToken(tok string, secret []byte, now time.Time) (*TransferClaims, error) {
	var claims TransferClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("https://blobs.example.com"),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

func TestJWTSigner(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s, err := NewJWTSigner("https://blobs.example.com/", []byte("s3cr3t"))
	is.NoErr(err)
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }

	key := "acme/widgets/ab/cd/abcd"
	href, err := s.Sign(ctx, key, http.MethodPut, time.Hour)
	is.NoErr(err)
	is.True(strings.HasPrefix(href, "https://blobs.example.com/objects/"+key+"?token="))

	u, err := url.Parse(href)
	is.NoErr(err)
	tok := u.Query().Get("token")

	claims, err := parseTransferToken(tok, []byte("s3cr3t"), now)
	is.NoErr(err)
	is.Equal(claims.Subject, key)
	is.Equal(claims.Method, http.MethodPut)
	is.True(claims.ExpiresAt.Time.Equal(now.Add(time.Hour)))

	_, err = parseTransferToken(tok, []byte("other"), now)
	is.True(errors.Is(err, jwt.ErrTokenSignatureInvalid))

	_, err = parseTransferToken(tok, []byte("s3cr3t"), now.Add(2*time.Hour))
	is.True(errors.Is(err, jwt.ErrTokenExpired))
}

func TestJWTSignerErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewJWTSigner("https://blobs.example.com", nil)
	is.True(err != nil)

	s, err := NewJWTSigner("https://blobs.example.com", []byte("k"))
	is.NoErr(err)
	_, err = s.Sign(context.Background(), "k", http.MethodDelete, time.Hour)
	is.True(errors.Is(err, ErrUnsupportedMethod))
}

// Package token extracts and validates the credential a Git LFS client sends
// in its Authorization header.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strings"
)

// MaxLength is the maximum accepted credential length.
const MaxLength = 1000

// Prefixes lists the recognized credential prefixes.
var Prefixes = []string{
	"github_pat_",
	"ghp_",
	"gho_",
	"ghu_",
	"ghs_",
	"ghr_",
}

var bodyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Extract returns the credential carried by an Authorization header value.
// Bearer and token schemes carry the credential directly, Basic carries it
// as the password half of user:password. The boolean is false when no valid
// credential is present.
func Extract(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}

	var cred string
	value := strings.TrimSpace(parts[1])
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		cred = value
	case "basic":
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return "", false
		}
		_, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			return "", false
		}
		cred = password
	default:
		return "", false
	}

	if !Validate(cred) {
		return "", false
	}

	return cred, true
}

// Validate reports whether cred has the shape of a recognized token.
func Validate(cred string) bool {
	if cred == "" || len(cred) > MaxLength {
		return false
	}
	for _, p := range Prefixes {
		if rest, ok := strings.CutPrefix(cred, p); ok {
			return bodyPattern.MatchString(rest)
		}
	}
	return false
}

// Hash returns the hex encoded SHA-256 digest of a credential. It is the
// only form of a credential that may be stored or used as a key.
func Hash(cred string) string {
	sum := sha256.Sum256([]byte(cred))
	return hex.EncodeToString(sum[:])
}

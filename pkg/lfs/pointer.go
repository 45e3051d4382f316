package lfs

import (
	"path"
	"regexp"
)

// HashAlgorithmSHA256 is the hash algorithm used for Git LFS.
const HashAlgorithmSHA256 = "sha256"

var oidPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidOid reports whether oid is a lowercase hex encoded SHA-256 digest.
func ValidOid(oid string) bool {
	return oidPattern.MatchString(oid)
}

// RelativePath returns the relative storage path of the pointer
// https://github.com/git-lfs/git-lfs/blob/main/docs/spec.md#intercepting-git
func (p Pointer) RelativePath() string {
	if len(p.Oid) < 5 {
		return p.Oid
	}

	return path.Join(p.Oid[0:2], p.Oid[2:4], p.Oid)
}

// StorageKey returns the object store key of the pointer within the given
// organization and repository.
func (p Pointer) StorageKey(org, repo string) string {
	return path.Join(org, repo, p.RelativePath())
}

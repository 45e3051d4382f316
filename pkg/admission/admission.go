// Package admission decides whether an organization and repository may be
// served at all, before any upstream call is made.
package admission

import (
	"errors"
	"regexp"
	"strings"
)

const (
	maxOrgLength  = 255
	maxRepoLength = 100
)

var (
	// ErrOrgNotAllowed is returned when the organization is not in the
	// allow-list or is not a valid organization name.
	ErrOrgNotAllowed = errors.New("organization not allowed")

	// ErrInvalidRepo is returned when the repository name is not valid.
	ErrInvalidRepo = errors.New("invalid repository name")
)

var (
	orgPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Target is the repository a batch request is scoped to.
type Target struct {
	Org  string
	Repo string
}

// String returns org/repo.
func (t Target) String() string {
	return t.Org + "/" + t.Repo
}

// Controller holds the organization allow-list.
type Controller struct {
	allowed map[string]struct{}
}

// NewController returns a controller that admits the given organizations.
// Matching is exact and case-sensitive.
func NewController(orgs []string) *Controller {
	c := &Controller{allowed: make(map[string]struct{}, len(orgs))}
	for _, o := range orgs {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		c.allowed[o] = struct{}{}
	}
	return c
}

// CheckOrg returns ErrOrgNotAllowed unless org is well formed and allowed.
func (c *Controller) CheckOrg(org string) error {
	if org == "" || len(org) > maxOrgLength || !orgPattern.MatchString(org) {
		return ErrOrgNotAllowed
	}
	if _, ok := c.allowed[org]; !ok {
		return ErrOrgNotAllowed
	}
	return nil
}

// CheckRepo returns ErrInvalidRepo unless repo is a well formed repository
// name.
func (c *Controller) CheckRepo(repo string) error {
	if repo == "" || len(repo) > maxRepoLength || !repoPattern.MatchString(repo) {
		return ErrInvalidRepo
	}
	// Also rejects "." and "..".
	if strings.HasPrefix(repo, ".") {
		return ErrInvalidRepo
	}
	return nil
}

// Check runs the organization check and then the repository check.
func (c *Controller) Check(t Target) error {
	if err := c.CheckOrg(t.Org); err != nil {
		return err
	}
	return c.CheckRepo(t.Repo)
}

// Allowed returns the number of allowed organizations.
func (c *Controller) Allowed() int {
	return len(c.allowed)
}

package github

import (
	"fmt"
	"regexp"
	"strings"
)

// Reference identifies a GitHub repository.
type Reference struct {
	Owner string
	Repo  string
}

// String returns the owner/repo form.
func (r Reference) String() string {
	return r.Owner + "/" + r.Repo
}

// ID returns the stable project identity for the repository.
func (r Reference) ID() string {
	return r.String()
}

// HTMLURL returns the browser URL of the repository on github.com.
func (r Reference) HTMLURL() string {
	return "https://github.com/" + r.String()
}

// Accepted reference forms, tried in order. The first one that matches and
// validates wins.
var referencePatterns = []*regexp.Regexp{
	// With a scheme any host is accepted: https://ghe/owner/repo.git, http://localhost:8080/owner/repo
	regexp.MustCompile(`^https?://(?:[^/\s@]+@)?[^/\s]+/([^/\s]+)/([^/\s?#]+)\.git/?(?:[?#].*)?$`),
	regexp.MustCompile(`^https?://(?:[^/\s@]+@)?[^/\s]+/([^/\s]+)/([^/\s?#]+)(?:[/?#].*)?$`),
	// Without one the host needs a dot: github.com/owner/repo.git
	regexp.MustCompile(`^(?:[^/\s@]+@)?[^/\s]+\.[^/\s]+/([^/\s]+)/([^/\s?#]+)\.git/?(?:[?#].*)?$`),
	// github.com/owner/repo[/...]
	regexp.MustCompile(`^(?:[^/\s@]+@)?[^/\s]+\.[^/\s]+/([^/\s]+)/([^/\s?#]+)(?:[/?#].*)?$`),
	// git@host:owner/repo.git
	regexp.MustCompile(`^[^@\s]+@[^:\s]+:([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`),
	// owner/repo
	regexp.MustCompile(`^([^/\s]+)/([^/\s]+?)/?$`),
}

// ParseReference extracts the owner and repository from a free-form string.
// It never touches the network.
func ParseReference(input string) (Reference, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrInvalidReference)
	}

	for _, pattern := range referencePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		owner := match[1]
		repo := strings.TrimSuffix(match[2], ".git")
		if validSegment(owner) && validSegment(repo) {
			return Reference{Owner: owner, Repo: repo}, nil
		}
	}

	return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, input)
}

func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "<> \t\r\n")
}

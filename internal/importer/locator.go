// Package importer locates and downloads Terraform sources from remote
// repositories.
package importer

import (
	"regexp"
	"strings"
)

// DefaultBranch is used when a locator names no branch.
const DefaultBranch = "main"

// Locator identifies a directory of a repository at a branch.
type Locator struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Path   string `json:"path,omitempty"`
}

func (l Locator) String() string {
	s := "github.com/" + l.Owner + "/" + l.Repo + "/tree/" + l.Branch
	if l.Path != "" {
		s += "/" + l.Path
	}
	return s
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ParseLocator accepts "owner/repo", "github.com/owner/repo" and full
// https URLs, optionally followed by /tree/<branch>/<path> or
// /blob/<branch>/<path>. It reports false for anything else.
func ParseLocator(text string) (Locator, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Locator{}, false
	}
	hadScheme := false
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(s), scheme) {
			s = s[len(scheme):]
			hadScheme = true
			break
		}
	}
	s = strings.TrimPrefix(s, "www.")
	if strings.HasPrefix(strings.ToLower(s), "github.com/") {
		s = s[len("github.com/"):]
	} else if hadScheme {
		return Locator{}, false
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return Locator{}, false
	}
	l := Locator{
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: DefaultBranch,
	}
	if !namePattern.MatchString(l.Owner) || !namePattern.MatchString(l.Repo) {
		return Locator{}, false
	}

	rest := parts[2:]
	if len(rest) == 0 {
		return l, true
	}
	if rest[0] != "tree" && rest[0] != "blob" {
		return Locator{}, false
	}
	if len(rest) < 2 || rest[1] == "" {
		return Locator{}, false
	}
	l.Branch = rest[1]
	for _, p := range rest[2:] {
		if p == "" || p == "." || p == ".." {
			return Locator{}, false
		}
	}
	l.Path = strings.Join(rest[2:], "/")
	return l, true
}

package git

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNoOrigin is returned when the repository has no usable origin remote
var ErrNoOrigin = errors.New("repository has no origin remote")

// Slug identifies a GitHub repository as owner/name
type Slug struct {
	Host  string
	Owner string
	Name  string
}

func (s Slug) String() string {
	return s.Owner + "/" + s.Name
}

// IsGitRepo checks if the path is inside a git repository
func IsGitRepo(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

func openRepo(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// RepoSlug returns the owner/name of the origin remote of the repository
// containing dir, walking up to find the git root
func RepoSlug(dir string) (Slug, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return Slug{}, err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return Slug{}, ErrNoOrigin
		}
		return Slug{}, err
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Slug{}, ErrNoOrigin
	}
	return ParseSlug(urls[0])
}

// CurrentRepoSlug is RepoSlug for the working directory
func CurrentRepoSlug() (Slug, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Slug{}, err
	}
	return RepoSlug(cwd)
}

// ParseSlug extracts host, owner and name from a remote URL. Accepts
// scp-like ssh (git@github.com:o/r.git), ssh:// and http(s):// forms.
func ParseSlug(remoteURL string) (Slug, error) {
	raw := strings.TrimSpace(remoteURL)
	if raw == "" {
		return Slug{}, fmt.Errorf("empty remote url")
	}

	var host, path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Slug{}, fmt.Errorf("parsing remote url %q: %w", raw, err)
		}
		host, path = u.Hostname(), u.Path
	} else {
		// scp-like syntax: [user@]host:owner/name
		at := strings.LastIndex(raw, "@")
		rest := raw[at+1:]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			return Slug{}, fmt.Errorf("unrecognized remote url %q", raw)
		}
		host, path = rest[:colon], rest[colon+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Slug{}, fmt.Errorf("remote url %q is not owner/name", raw)
	}

	return Slug{Host: host, Owner: parts[0], Name: parts[1]}, nil
}

// ScopeQuery prefixes query with a repo: qualifier unless it already has one
func ScopeQuery(query string, slug Slug) string {
	for _, field := range strings.Fields(query) {
		if strings.HasPrefix(field, "repo:") {
			return query
		}
	}
	scoped := "repo:" + slug.String()
	if strings.TrimSpace(query) == "" {
		return scoped
	}
	return scoped + " " + query
}

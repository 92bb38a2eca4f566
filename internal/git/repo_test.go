package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlug(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Slug
		wantErr bool
	}{
		{name: "scp ssh", url: "git@github.com:octo/widgets.git", want: Slug{Host: "github.com", Owner: "octo", Name: "widgets"}},
		{name: "https", url: "https://github.com/octo/widgets.git", want: Slug{Host: "github.com", Owner: "octo", Name: "widgets"}},
		{name: "https without suffix", url: "https://github.com/octo/widgets", want: Slug{Host: "github.com", Owner: "octo", Name: "widgets"}},
		{name: "ssh scheme with port", url: "ssh://git@ghe.example.com:2222/octo/widgets.git", want: Slug{Host: "ghe.example.com", Owner: "octo", Name: "widgets"}},
		{name: "trailing slash", url: "https://github.com/octo/widgets/", want: Slug{Host: "github.com", Owner: "octo", Name: "widgets"}},
		{name: "empty", url: "", wantErr: true},
		{name: "no path", url: "https://github.com", wantErr: true},
		{name: "too deep", url: "https://github.com/a/b/c", wantErr: true},
		{name: "local path", url: "/srv/git/widgets", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlug(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoSlug(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:octo/widgets.git"},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	slug, err := RepoSlug(sub)
	require.NoError(t, err)
	assert.Equal(t, "octo/widgets", slug.String())
	assert.True(t, IsGitRepo(sub))
}

func TestRepoSlug_NoOrigin(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = RepoSlug(dir)
	assert.ErrorIs(t, err, ErrNoOrigin)
}

func TestRepoSlug_NotARepo(t *testing.T) {
	dir := t.TempDir()
	_, err := RepoSlug(dir)
	assert.Error(t, err)
	assert.False(t, IsGitRepo(dir))
}

func TestScopeQuery(t *testing.T) {
	slug := Slug{Owner: "octo", Name: "widgets"}

	assert.Equal(t, "repo:octo/widgets is:open", ScopeQuery("is:open", slug))
	assert.Equal(t, "repo:octo/widgets", ScopeQuery("  ", slug))
	assert.Equal(t, "repo:other/thing is:open", ScopeQuery("repo:other/thing is:open", slug))
}

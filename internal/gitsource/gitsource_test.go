package gitsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name string
		url  string
		want string
	}{
		{name: "https", url: "https://github.com/example/verbit.git", want: filepath.Join("repos", "github.com", "example", "verbit")},
		{name: "https without suffix", url: "https://gitlab.com/group/sub/lists", want: filepath.Join("repos", "gitlab.com", "group", "sub", "lists")},
		{name: "scp-like", url: "git@github.com:example/verbit.git", want: filepath.Join("repos", "github.com", "example", "verbit")},
		{name: "ssh scheme", url: "ssh://git@example.org:2222/lists.git", want: filepath.Join("repos", "example.org", "lists")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocalPathErrors(t *testing.T) {
	for _, u := range []string{"", "not a url", "https://github.com/", "git@github.com:"} {
		_, err := LocalPath("repos", u)
		assert.Error(t, err, "url %q", u)
	}
}

func TestSyncPullWithoutRemoteFails(t *testing.T) {
	// No origin remote, so the pull fails and the error names the path.
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	err = Sync(context.Background(), "https://example.invalid/lists.git", dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dir)
}

func TestSyncRejectsNonRepository(t *testing.T) {
	err := Sync(context.Background(), "https://example.invalid/lists.git", t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open existing repo")
}

package remotelist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

// GitHubList stores the number list as a JSON array in a single file of a
// GitHub repository. The file's blob SHA is the version tag: updates go
// through the contents API, which rejects a write whose SHA is stale.
type GitHubList struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

// NewGitHubList builds a GitHubList over an authenticated client.
func NewGitHubList(token, owner, repo, path, branch string) *GitHubList {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return &GitHubList{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		path:   path,
		branch: branch,
	}
}

// WithBaseURL points the underlying client at a different API endpoint.
// Used by tests to talk to a local stub.
func (g *GitHubList) WithBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	g.client.BaseURL = u
	return nil
}

func (g *GitHubList) Fetch(ctx context.Context) ([]string, error) {
	items, _, err := g.fetch(ctx)
	return items, err
}

func (g *GitHubList) fetch(ctx context.Context) ([]string, string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.branch}
	file, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("%w: %s is not a file", ErrUnavailable, g.path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var items []string
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, "", fmt.Errorf("%w: parse %s: %v", ErrUnavailable, g.path, err)
	}
	return items, file.GetSHA(), nil
}

func (g *GitHubList) Put(ctx context.Context, items []string) error {
	// Re-read the version tag immediately before writing; the window
	// between this read and the write is covered by the SHA guard.
	_, sha, err := g.fetch(ctx)
	if err != nil {
		return err
	}

	content, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(fmt.Sprintf("Update numbers - %s", time.Now().UTC().Format(time.RFC3339))),
		Content: content,
		SHA:     github.Ptr(sha),
		Branch:  github.Ptr(g.branch),
	}
	_, resp, err := g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

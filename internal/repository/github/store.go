// Package github implements the remote store against the GitHub API:
// REST for contents, refs and pull requests, GraphQL for the auto-merge
// mutation (which REST does not expose).
package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v63/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/lagerschema/lagerschema/internal/repository"
)

// Config carries the credentials and target repository. All fields are
// required; NewStore fails fast with the missing field's name so a
// misconfigured deploy dies at startup, not mid-pipeline.
type Config struct {
	Owner string
	Repo  string
	Token string
}

type Store struct {
	owner   string
	repo    string
	rest    *gh.Client
	graphql *githubv4.Client
}

func NewStore(conf Config) (*Store, error) {
	switch {
	case conf.Owner == "":
		return nil, fmt.Errorf("github store: missing required config %q", "owner")
	case conf.Repo == "":
		return nil, fmt.Errorf("github store: missing required config %q", "repo")
	case conf.Token == "":
		return nil, fmt.Errorf("github store: missing required config %q", "token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conf.Token})
	hc := oauth2.NewClient(context.Background(), ts)

	return &Store{
		owner:   conf.Owner,
		repo:    conf.Repo,
		rest:    gh.NewClient(hc),
		graphql: githubv4.NewClient(hc),
	}, nil
}

func (s *Store) GetFile(ctx context.Context, path, ref string) (repository.FileContent, error) {
	fc, _, resp, err := s.rest.Repositories.GetContents(ctx, s.owner, s.repo, path, &gh.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return repository.FileContent{}, fmt.Errorf("%w: %s@%s", repository.ErrFileNotFound, path, ref)
		}
		return repository.FileContent{}, fmt.Errorf("s.rest.Repositories.GetContents -> %w", err)
	}
	if fc == nil {
		return repository.FileContent{}, fmt.Errorf("%s@%s is a directory, not a file", path, ref)
	}

	text, err := fc.GetContent()
	if err != nil {
		return repository.FileContent{}, fmt.Errorf("fc.GetContent -> %w", err)
	}

	return repository.FileContent{Text: text, SHA: fc.GetSHA()}, nil
}

func (s *Store) PutFile(ctx context.Context, path, branch, message, content, sha string) (string, error) {
	res, _, err := s.rest.Repositories.UpdateFile(ctx, s.owner, s.repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: []byte(content),
		SHA:     gh.String(sha),
		Branch:  gh.String(branch),
	})
	if err != nil {
		return "", fmt.Errorf("s.rest.Repositories.UpdateFile -> %w", err)
	}
	return res.Commit.GetSHA(), nil
}

func (s *Store) BranchHead(ctx context.Context, branch string) (string, error) {
	ref, _, err := s.rest.Git.GetRef(ctx, s.owner, s.repo, "heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("s.rest.Git.GetRef -> %w", err)
	}
	return ref.GetObject().GetSHA(), nil
}

func (s *Store) CreateBranch(ctx context.Context, name, sha string) error {
	_, _, err := s.rest.Git.CreateRef(ctx, s.owner, s.repo, &gh.Reference{
		Ref:    gh.String("refs/heads/" + name),
		Object: &gh.GitObject{SHA: gh.String(sha)},
	})
	if err != nil {
		return fmt.Errorf("s.rest.Git.CreateRef -> %w", err)
	}
	return nil
}

func (s *Store) CreatePullRequest(ctx context.Context, head, base, title, body string) (repository.PullRequest, error) {
	pr, _, err := s.rest.PullRequests.Create(ctx, s.owner, s.repo, &gh.NewPullRequest{
		Title: gh.String(title),
		Head:  gh.String(head),
		Base:  gh.String(base),
		Body:  gh.String(body),
	})
	if err != nil {
		return repository.PullRequest{}, fmt.Errorf("s.rest.PullRequests.Create -> %w", err)
	}
	return repository.PullRequest{Number: pr.GetNumber(), NodeID: pr.GetNodeID()}, nil
}

// EnableAutoMerge runs the enablePullRequestAutoMerge mutation with the
// squash method. GraphQL reports mutation failures inside a 200
// response body; the client surfaces those as errors, so checking err
// here covers both transport and embedded failures.
func (s *Store) EnableAutoMerge(ctx context.Context, nodeID string) error {
	var m struct {
		EnablePullRequestAutoMerge struct {
			PullRequest struct {
				Number githubv4.Int
			}
		} `graphql:"enablePullRequestAutoMerge(input: $input)"`
	}
	method := githubv4.PullRequestMergeMethodSquash
	input := githubv4.EnablePullRequestAutoMergeInput{
		PullRequestID: githubv4.ID(nodeID),
		MergeMethod:   &method,
	}
	if err := s.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("s.graphql.Mutate(enablePullRequestAutoMerge) -> %w", err)
	}
	return nil
}

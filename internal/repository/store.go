// Package repository defines the remote content store the write
// pipeline and read layer are built on.
package repository

import (
	"context"
	"errors"
)

// ErrFileNotFound is returned by GetFile when the path does not exist
// on the requested ref.
var ErrFileNotFound = errors.New("file not found in remote store")

// FileContent is a fetched file plus the content hash that a later
// write must supply as its optimistic-concurrency precondition.
type FileContent struct {
	Text string
	SHA  string
}

// PullRequest identifies a created merge proposal. NodeID is the global
// id the auto-merge mutation is keyed by.
type PullRequest struct {
	Number int
	NodeID string
}

// RemoteStore is the full set of store primitives the pipeline
// consumes. Every method is a single bounded network call; none
// retries.
type RemoteStore interface {
	// GetFile fetches a file's content and content hash from a ref.
	GetFile(ctx context.Context, path, ref string) (FileContent, error)
	// PutFile writes content to path on branch, guarded by the content
	// hash previously observed, and returns the new commit id.
	PutFile(ctx context.Context, path, branch, message, content, sha string) (string, error)
	// BranchHead reads the current commit id of a branch.
	BranchHead(ctx context.Context, branch string) (string, error)
	// CreateBranch creates a new branch at the given commit id.
	CreateBranch(ctx context.Context, name, sha string) error
	// CreatePullRequest opens a merge proposal from head into base.
	CreatePullRequest(ctx context.Context, head, base, title, body string) (PullRequest, error)
	// EnableAutoMerge turns on automatic squash-merge for a proposal.
	EnableAutoMerge(ctx context.Context, nodeID string) error
}

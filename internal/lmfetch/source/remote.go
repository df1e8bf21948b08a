package source

import (
	"context"
	"fmt"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
	"github.com/ferg-cod3s/lmfetch/internal/observability"
	"github.com/go-git/go-git/v5"
)

// RemoteSource wraps a LocalSource over an already-cloned repository path,
// per spec.md's Non-goal: the clone mechanics themselves are out of scope.
// It is a local Source after a preparation step (spec.md §9).
type RemoteSource struct {
	*LocalSource
	RepoBranch string
	RepoCommit string
}

// NewRemote builds a RemoteSource rooted at an already-cloned path, reading
// HEAD branch/commit via go-git for provenance metadata only — it never
// performs the clone itself.
func NewRemote(clonedPath string, opts Options, log *observability.Logger) (*RemoteSource, error) {
	local := NewLocal(clonedPath, opts, log)

	rs := &RemoteSource{LocalSource: local}

	repo, err := git.PlainOpen(clonedPath)
	if err != nil {
		// Not a git checkout (or a plain directory pretending to be a repo):
		// recoverable — provenance metadata is advisory, not required.
		if log != nil {
			log.Debug("remote source: not a git repository, proceeding without provenance", "path", clonedPath, "error", err)
		}
		return rs, nil
	}

	head, err := repo.Head()
	if err != nil {
		return rs, nil
	}
	rs.RepoCommit = head.Hash().String()
	if head.Name().IsBranch() {
		rs.RepoBranch = head.Name().Short()
	}
	return rs, nil
}

// Discover implements Source by delegating to the embedded LocalSource.
func (r *RemoteSource) Discover(ctx context.Context) (<-chan lmfetchtypes.SourceFile, <-chan error) {
	return r.LocalSource.Discover(ctx)
}

// Provenance returns a human-readable description of the checkout state,
// for inclusion in progress messages or formatted output headers.
func (r *RemoteSource) Provenance() string {
	if r.RepoCommit == "" {
		return ""
	}
	if r.RepoBranch != "" {
		return fmt.Sprintf("%s@%s", r.RepoBranch, r.RepoCommit[:min(8, len(r.RepoCommit))])
	}
	return r.RepoCommit[:min(8, len(r.RepoCommit))]
}

package synthesis

import (
	git "github.com/go-git/go-git/v5"

	"github.com/seergraph/seer-go/internal/bizgraph"
)

// ReadProvenance stamps graph metadata with the HEAD commit and branch of
// the repository containing the facts, when there is one. Absent or broken
// repositories yield empty provenance, never an error: provenance is
// best-effort context, not an input.
func ReadProvenance(repoPath string) bizgraph.Provenance {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return bizgraph.Provenance{}
	}

	head, err := repo.Head()
	if err != nil {
		return bizgraph.Provenance{}
	}

	p := bizgraph.Provenance{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		p.Branch = head.Name().Short()
	}
	return p
}

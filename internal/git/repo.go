// Package git is the host-SCM collaborator for the git-add-p-like front end
// (spec.md section 1's primary motivating use case): it shells out to the
// git binary to discover a repo, list its changed files, fetch their diffs,
// and stage a reconstructed selection back into the index. Adapted from the
// teacher's internal/git package, which drove its own file/diff panes the
// same way.
package git

import (
	"context"
	"strings"

	"scm-record/internal/util"
)

func DiscoverRepoRoot(ctx context.Context, cwd string) (string, error) {
	out, err := util.Run(ctx, cwd, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func DiscoverGitDir(ctx context.Context, cwd string) (string, error) {
	out, err := util.Run(ctx, cwd, "git", "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

package git

import (
	"context"
	"fmt"
	"strings"

	"scm-record/internal/util"
)

// StageBlob records content as a git blob object and stages it at path in
// the index with the given Unix file mode, the moral equivalent of `git
// add -p` accepting a file's selected hunks: rather than reconstruct and
// reapply a patch, scm-record already has the reconstructed selected
// content in hand, so it writes that content straight to the index
// (mirrors `git hash-object -w --stdin` + `git update-index --cacheinfo`).
func StageBlob(ctx context.Context, cwd, path, content string, mode uint32) error {
	hash, err := util.RunWithStdin(ctx, cwd, content, "git", "hash-object", "-w", "--stdin")
	if err != nil {
		return fmt.Errorf("hash-object %s: %w", path, err)
	}
	hash = strings.TrimSpace(hash)

	cacheinfo := fmt.Sprintf("%o,%s,%s", mode, hash, path)
	if _, err := util.Run(ctx, cwd, "git", "update-index", "--add", "--cacheinfo", cacheinfo); err != nil {
		return fmt.Errorf("update-index %s: %w", path, err)
	}
	return nil
}

// UnstagePath removes path from the index entirely, for the "selected
// contents are absent" case (the file's changes, staged or not, resolve to
// deletion).
func UnstagePath(ctx context.Context, cwd, path string) error {
	if _, err := util.Run(ctx, cwd, "git", "update-index", "--force-remove", path); err != nil {
		return fmt.Errorf("update-index --force-remove %s: %w", path, err)
	}
	return nil
}

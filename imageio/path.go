package imageio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TempSiblingPath builds a sibling temp path for safe write-then-rename:
// <dir>/<stem>.denoise-tmp-<unique><ext>, always in the same directory as
// target so the final rename is same-filesystem and atomic.
func TempSiblingPath(target string) string {
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	return fmt.Sprintf("%s.denoise-tmp-%s%s", stem, uuid.NewString(), ext)
}

// PromoteTemp renames tmpPath over target on success, or removes tmpPath on
// failure, per spec.md §6.3. Call with a non-nil writeErr to discard tmpPath;
// call with nil to attempt promotion.
func PromoteTemp(tmpPath, target string, writeErr error) error {
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s -> %s: %v", ErrRename, tmpPath, target, err)
	}
	return nil
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

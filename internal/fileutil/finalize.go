// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
)

// TempContext holds state for an output written to a temporary sibling and renamed into place.
type TempContext struct {
	fs afero.Fs

	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile afero.File
	TmpName string
}

// NewTempContext stats the source file and creates a temp file next to outPath.
// Caller must defer CleanupOnError.
func NewTempContext(fsys afero.Fs, filename, outPath string) (*TempContext, error) {
	info, err := fsys.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", filename)
	}

	tmpFile, err := afero.TempFile(fsys, filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		fs:      fsys,
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
// After a successful Commit the temp file no longer exists and this is a no-op.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		tc.fs.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit applies owner read/write permissions (plus the source's executable bits),
// closes the temp file and renames it to outPath. It returns the final size.
func (tc *TempContext) Commit(outPath string) (int64, error) {
	perm := os.FileMode(ownerReadWrite)

	if tc.IsExec {
		perm |= executableBits
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := tc.fs.Chmod(tc.TmpName, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.fs.Rename(tc.TmpName, outPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	outInfo, err := tc.fs.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}

// PreserveTimestamps sets both access and modification time of path to modTime.
func PreserveTimestamps(fsys afero.Fs, path string, modTime time.Time) error {
	if err := fsys.Chtimes(path, modTime, modTime); err != nil {
		return fmt.Errorf("preserving timestamps: %w", err)
	}

	return nil
}

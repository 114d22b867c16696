package encryption

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/idelchi/gocbc/internal/fileutil"
)

// EncryptFile encrypts inPath into a container at outPath.
// The container is written to a temporary sibling and renamed into place on success,
// so a failed or cancelled run never leaves a partial container behind.
// The source is left untouched. It returns the size of the written container.
func (e *Engine) EncryptFile(ctx context.Context, fsys afero.Fs, inPath, outPath string) (size int64, err error) {
	tc, err := fileutil.NewTempContext(fsys, inPath, outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing output: %w", ErrIO, err)
	}

	defer tc.CleanupOnError(&err)

	src, err := fsys.Open(filepath.Clean(inPath))
	if err != nil {
		return 0, fmt.Errorf("%w: opening input file: %w", ErrIO, err)
	}
	defer src.Close()

	length := uint64(max(0, tc.SrcInfo.Size())) //nolint:gosec // clamped to non-negative

	if err := e.Encrypt(ctx, src, tc.TmpFile, length); err != nil {
		return 0, fmt.Errorf("encrypting file: %w", err)
	}

	size, err = tc.Commit(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return size, nil
}

// DecryptFile restores the plaintext of the container at inPath into outPath.
// The container size is checked against the header and block layout before any
// ciphertext is decrypted. Output handling matches EncryptFile.
func (e *Engine) DecryptFile(ctx context.Context, fsys afero.Fs, inPath, outPath string) (size int64, err error) {
	tc, err := fileutil.NewTempContext(fsys, inPath, outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing output: %w", ErrIO, err)
	}

	defer tc.CleanupOnError(&err)

	src, err := fsys.Open(filepath.Clean(inPath))
	if err != nil {
		return 0, fmt.Errorf("%w: opening input file: %w", ErrIO, err)
	}
	defer src.Close()

	if _, err := checkContainer(src, tc.SrcInfo.Size()); err != nil {
		return 0, err
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: rewinding input file: %w", ErrIO, err)
	}

	header, err := e.Decrypt(ctx, src, tc.TmpFile)
	if err != nil {
		return 0, fmt.Errorf("decrypting file: %w", err)
	}

	// Pin the output to the recorded length. Decrypt already stops writing there.
	if err := tc.TmpFile.Truncate(int64(header.Length)); err != nil { //nolint:gosec // bounded by the container size
		return 0, fmt.Errorf("%w: truncating output: %w", ErrIO, err)
	}

	size, err = tc.Commit(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return size, nil
}

// InspectFile reads only the header of the container at path.
// It returns the header and the number of ciphertext bytes that follow it.
func InspectFile(fsys afero.Fs, path string) (Header, int64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return Header{}, 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	file, err := fsys.Open(filepath.Clean(path))
	if err != nil {
		return Header{}, 0, fmt.Errorf("%w: opening container: %w", ErrIO, err)
	}
	defer file.Close()

	header, err := checkContainer(file, info.Size())
	if err != nil {
		return Header{}, 0, err
	}

	return header, info.Size() - HeaderSize, nil
}

// checkContainer reads the header from r and checks it against the container size.
func checkContainer(r io.Reader, size int64) (Header, error) {
	if err := checkContainerSize(size); err != nil {
		return Header{}, err
	}

	header, err := ReadHeader(r)
	if err != nil {
		return Header{}, err
	}

	ciphertext := uint64(size - HeaderSize) //nolint:gosec // checkContainerSize ensures non-negative

	if want := CiphertextSize(header.Length); ciphertext < want {
		return header, fmt.Errorf("%w: header records %d bytes, needs %d ciphertext bytes, found %d",
			ErrFormat, header.Length, want, ciphertext)
	}

	return header, nil
}

// checkContainerSize rejects sizes that cannot hold a header plus whole blocks.
func checkContainerSize(size int64) error {
	if size < HeaderSize {
		return fmt.Errorf("%w: %d bytes is smaller than the %d byte header", ErrFormat, size, HeaderSize)
	}

	if rem := (size - HeaderSize) % BlockSize; rem != 0 {
		return fmt.Errorf("%w: ciphertext is %d bytes past a block boundary", ErrFormat, rem)
	}

	return nil
}

package encryption_test

import (
	"context"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocbc/internal/encryption"
)

func tempFiles(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()

	entries, err := afero.ReadDir(fsys, dir)
	require.NoError(t, err)

	var names []string

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			names = append(names, entry.Name())
		}
	}

	return names
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())
	plaintext := randomBytes(t, 70_001)

	require.NoError(t, afero.WriteFile(fsys, "/data/report.bin", plaintext, 0o644))

	size, err := engine.EncryptFile(context.Background(), fsys, "/data/report.bin", "/data/report.bin.enc")
	require.NoError(t, err)
	assert.Equal(t, int64(encryption.HeaderSize)+int64(encryption.CiphertextSize(70_001)), size)

	original, err := afero.ReadFile(fsys, "/data/report.bin")
	require.NoError(t, err)
	assert.Equal(t, plaintext, original, "source must be left untouched")

	size, err = engine.DecryptFile(context.Background(), fsys, "/data/report.bin.enc", "/data/restored.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(plaintext)), size)

	restored, err := afero.ReadFile(fsys, "/data/restored.bin")
	require.NoError(t, err)
	assert.Equal(t, plaintext, restored)

	assert.Empty(t, tempFiles(t, fsys, "/data"))
}

func TestFileKeepsExecutableBits(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize128), encryption.DefaultOptions())

	require.NoError(t, afero.WriteFile(fsys, "/bin/tool", []byte("#!/bin/sh\necho hi\n"), 0o755))

	_, err := engine.EncryptFile(context.Background(), fsys, "/bin/tool", "/bin/tool.enc")
	require.NoError(t, err)

	_, err = engine.DecryptFile(context.Background(), fsys, "/bin/tool.enc", "/bin/tool.out")
	require.NoError(t, err)

	info, err := fsys.Stat("/bin/tool.out")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111)
}

func TestDecryptFileRejectsBadSizesBeforeDecrypting(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	require.NoError(t, afero.WriteFile(fsys, "/c/short.enc", make([]byte, encryption.HeaderSize-1), 0o600))
	require.NoError(t, afero.WriteFile(fsys, "/c/ragged.enc", make([]byte, encryption.HeaderSize+17), 0o600))

	for _, name := range []string{"/c/short.enc", "/c/ragged.enc"} {
		_, err := engine.DecryptFile(context.Background(), fsys, name, name+".out")
		require.ErrorIs(t, err, encryption.ErrFormat, name)

		exists, err := afero.Exists(fsys, name+".out")
		require.NoError(t, err)
		assert.False(t, exists, "no output for %s", name)
	}

	assert.Empty(t, tempFiles(t, fsys, "/c"))
}

func TestDecryptFileCleansUpTruncatedContainer(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	container := seal(t, engine, randomBytes(t, 200))
	require.NoError(t, afero.WriteFile(fsys, "/c/cut.enc", container[:len(container)-encryption.BlockSize], 0o600))

	_, err := engine.DecryptFile(context.Background(), fsys, "/c/cut.enc", "/c/cut")
	require.ErrorIs(t, err, encryption.ErrFormat)

	exists, err := afero.Exists(fsys, "/c/cut")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, tempFiles(t, fsys, "/c"))
}

func TestEncryptFileMissingInput(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/data", 0o755))

	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	_, err := engine.EncryptFile(context.Background(), fsys, "/data/nope", "/data/nope.enc")
	require.ErrorIs(t, err, encryption.ErrIO)
}

func TestInspectFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	container := seal(t, engine, []byte("1234567890"))
	require.NoError(t, afero.WriteFile(fsys, "/c/ok.enc", container, 0o600))

	header, ciphertext, err := encryption.InspectFile(fsys, "/c/ok.enc")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), header.Length)
	assert.Equal(t, container[8:encryption.HeaderSize], header.IV[:])
	assert.Equal(t, int64(16), ciphertext)

	require.NoError(t, afero.WriteFile(fsys, "/c/short.enc", container[:10], 0o600))

	_, _, err = encryption.InspectFile(fsys, "/c/short.enc")
	require.ErrorIs(t, err, encryption.ErrFormat)
}

func TestFileEntryPointsRejectOverstatedLength(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	container := seal(t, engine, []byte("1234567890"))

	for name, length := range map[string]uint64{
		"/c/max.enc":   math.MaxUint64,
		"/c/limit.enc": encryption.MaxLength,
		"/c/ahead.enc": 17,
	} {
		patched := append([]byte{}, container...)
		binary.LittleEndian.PutUint64(patched[:8], length)
		require.NoError(t, afero.WriteFile(fsys, name, patched, 0o600))

		_, err := engine.DecryptFile(context.Background(), fsys, name, name+".out")
		require.ErrorIs(t, err, encryption.ErrFormat, name)
		require.NotErrorIs(t, err, encryption.ErrIO, name)

		exists, err := afero.Exists(fsys, name+".out")
		require.NoError(t, err)
		assert.False(t, exists, name)

		_, _, err = encryption.InspectFile(fsys, name)
		require.ErrorIs(t, err, encryption.ErrFormat, name)
	}

	assert.Empty(t, tempFiles(t, fsys, "/c"))
}

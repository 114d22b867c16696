package encryption_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocbc/internal/encryption"
)

type countingReporter struct {
	total int64
	added int64
	done  bool
}

func (r *countingReporter) Start(total int64, _ string) { r.total = total }
func (r *countingReporter) Add(n int64)                 { r.added += n }
func (r *countingReporter) Finish()                     { r.done = true }

func TestProcessorRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	contents := map[string][]byte{
		"/work/a.txt":     []byte("alpha"),
		"/work/b.txt":     {},
		"/work/sub/c.bin": randomBytes(t, 100_000),
	}

	var files []string

	for name, data := range contents {
		require.NoError(t, afero.WriteFile(fsys, name, data, 0o644))

		files = append(files, name)
	}

	reporter := &countingReporter{}

	enc := encryption.NewProcessor(engine, fsys, encryption.ProcessorOptions{
		Parallel:      2,
		EncryptSuffix: ".enc",
	}, zerolog.Nop(), reporter)

	summary, err := enc.ProcessFiles(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)
	assert.Zero(t, summary.Errored)
	assert.Equal(t, reporter.total, reporter.added)
	assert.True(t, reporter.done)

	containers := make([]string, 0, len(files))
	for _, name := range files {
		containers = append(containers, name+".enc")
	}

	dec := encryption.NewProcessor(engine, fsys, encryption.ProcessorOptions{
		Decrypt:       true,
		Parallel:      2,
		EncryptSuffix: ".enc",
		DecryptSuffix: ".out",
	}, zerolog.Nop(), nil)

	summary, err = dec.ProcessFiles(context.Background(), containers)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)

	for name, data := range contents {
		got, err := afero.ReadFile(fsys, name+".out")
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got), name)
	}
}

func TestProcessorContinuesPastFailures(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	require.NoError(t, afero.WriteFile(fsys, "/in/good.enc", seal(t, engine, []byte("fine")), 0o600))
	require.NoError(t, afero.WriteFile(fsys, "/in/bad.enc", []byte("too short"), 0o600))

	var logs bytes.Buffer

	proc := encryption.NewProcessor(engine, fsys, encryption.ProcessorOptions{
		Decrypt:       true,
		Parallel:      1,
		EncryptSuffix: ".enc",
	}, zerolog.New(&logs), nil)

	summary, err := proc.ProcessFiles(context.Background(), []string{"/in/bad.enc", "/in/missing.enc", "/in/good.enc"})
	require.ErrorIs(t, err, encryption.ErrFormat)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 2, summary.Errored)

	got, err := afero.ReadFile(fsys, "/in/good")
	require.NoError(t, err)
	assert.Equal(t, []byte("fine"), got)

	assert.Contains(t, logs.String(), "/in/bad.enc")
	assert.Contains(t, logs.String(), "/in/missing.enc")
}

func TestProcessorRefusesToOverwriteInput(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	engine := newEngine(t, randomBytes(t, encryption.KeySize256), encryption.DefaultOptions())

	require.NoError(t, afero.WriteFile(fsys, "/in/plain", []byte("keep me"), 0o600))

	proc := encryption.NewProcessor(engine, fsys, encryption.ProcessorOptions{
		Decrypt:       true,
		EncryptSuffix: ".enc",
	}, zerolog.Nop(), nil)

	summary, err := proc.ProcessFiles(context.Background(), []string{"/in/plain"})
	require.Error(t, err)
	assert.Equal(t, 1, summary.Errored)

	got, err := afero.ReadFile(fsys, "/in/plain")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep me"), got)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		opts encryption.ProcessorOptions
		want string
	}{
		{
			name: "encrypt appends suffix",
			file: "dir/report.pdf",
			opts: encryption.ProcessorOptions{EncryptSuffix: ".enc"},
			want: "dir/report.pdf.enc",
		},
		{
			name: "decrypt strips suffix",
			file: "dir/report.pdf.enc",
			opts: encryption.ProcessorOptions{Decrypt: true, EncryptSuffix: ".enc"},
			want: "dir/report.pdf",
		},
		{
			name: "decrypt strips and appends",
			file: "report.pdf.enc",
			opts: encryption.ProcessorOptions{Decrypt: true, EncryptSuffix: ".enc", DecryptSuffix: ".dec"},
			want: "report.pdf.dec",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, filepath.FromSlash(tc.want), encryption.OutputPath(filepath.FromSlash(tc.file), tc.opts))
		})
	}
}

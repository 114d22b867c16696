package encryption

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gocbc/internal/fileutil"
	"github.com/idelchi/gocbc/internal/progress"
)

// ProcessorOptions control how a batch is run and where outputs land.
type ProcessorOptions struct {
	// Decrypt selects the direction of the batch.
	Decrypt bool

	// Parallel bounds the number of files transformed at once.
	Parallel int

	// EncryptSuffix is appended to encrypted outputs and stripped from decrypt inputs.
	EncryptSuffix string

	// DecryptSuffix is appended to decrypted outputs after stripping EncryptSuffix.
	DecryptSuffix string

	// PreserveTimestamps copies the source modification time onto the output.
	PreserveTimestamps bool
}

// Processor handles the encryption and decryption of batches of files.
type Processor struct {
	// engine performs the per-file transformation
	engine *Engine

	// fs is where inputs are read and outputs written
	fs afero.Fs

	// opts contains runtime options
	opts ProcessorOptions

	// log receives one entry per file
	log zerolog.Logger

	// progress is advanced by the input size of every finished file
	progress progress.Reporter
}

// NewProcessor creates a Processor. A nil reporter disables progress output.
func NewProcessor(
	engine *Engine,
	fsys afero.Fs,
	opts ProcessorOptions,
	log zerolog.Logger,
	reporter progress.Reporter,
) *Processor {
	if reporter == nil {
		reporter = progress.Nop{}
	}

	if opts.Parallel < 1 {
		opts.Parallel = 1
	}

	return &Processor{
		engine:   engine,
		fs:       fsys,
		opts:     opts,
		log:      log,
		progress: reporter,
	}
}

// ProcessFiles transforms every file, at most opts.Parallel at a time.
// A failing file is reported and skipped; the others still run.
// The returned error is the first per-file failure, if any.
//
//nolint:cyclop
func (p *Processor) ProcessFiles(ctx context.Context, files []string) (Summary, error) {
	var summary Summary

	results := make(chan Result, len(files))

	p.progress.Start(p.totalInputSize(files), p.verb())

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			p.progress.Add(result.InputSize)

			if result.Error != nil {
				summary.Errored++

				p.log.Error().Err(result.Error).Str("input", result.Input).Msg("processing failed")

				continue
			}

			summary.Processed++

			summary.TotalSize += result.OutputSize

			p.log.Info().
				Str("input", result.Input).
				Str("output", result.Output).
				Int64("bytes", result.OutputSize).
				Msg(p.verb())
		}
	}()

	group := errgroup.Group{}
	group.SetLimit(p.opts.Parallel)

	for _, file := range files {
		group.Go(func() error {
			result := p.processFile(ctx, file)
			results <- result

			return result.Error
		})
	}

	err := group.Wait()

	close(results)

	<-done // Wait for printer to finish

	p.progress.Finish()

	if err != nil {
		return summary, fmt.Errorf("processing files: %w", err)
	}

	return summary, nil
}

// processFile runs one file through the engine and records the outcome.
func (p *Processor) processFile(ctx context.Context, file string) Result {
	outPath := OutputPath(file, p.opts)
	result := Result{Input: file, Output: outPath}

	info, err := p.fs.Stat(file)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrIO, err)

		return result
	}

	result.InputSize = info.Size()

	if filepath.Clean(outPath) == filepath.Clean(file) {
		result.Error = fmt.Errorf("output path %q equals input path", outPath)

		return result
	}

	p.log.Debug().Str("input", file).Int64("bytes", info.Size()).Msg("starting")

	if p.opts.Decrypt {
		result.OutputSize, err = p.engine.DecryptFile(ctx, p.fs, file, outPath)
	} else {
		result.OutputSize, err = p.engine.EncryptFile(ctx, p.fs, file, outPath)
	}

	if err != nil {
		result.Error = err

		return result
	}

	if p.opts.PreserveTimestamps {
		if err := fileutil.PreserveTimestamps(p.fs, outPath, info.ModTime()); err != nil {
			result.Error = fmt.Errorf("%w: %w", ErrIO, err)
		}
	}

	return result
}

func (p *Processor) totalInputSize(files []string) int64 {
	var total int64

	for _, file := range files {
		if info, err := p.fs.Stat(file); err == nil {
			total += info.Size()
		}
	}

	return total
}

func (p *Processor) verb() string {
	if p.opts.Decrypt {
		return "decrypted"
	}

	return "encrypted"
}

// OutputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func OutputPath(filename string, opts ProcessorOptions) string {
	ext := opts.EncryptSuffix

	if opts.Decrypt {
		filename = strings.TrimSuffix(filename, opts.EncryptSuffix)
		ext = opts.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

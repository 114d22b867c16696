// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/discovery"
	"github.com/idelchi/gocbc/internal/encryption"
	"github.com/idelchi/gocbc/internal/progress"
)

// Run resolves the files named in cfg and encrypts or decrypts them.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	scanned, excluded, start, done, err := preamble(cfg)
	if done || err != nil {
		return err
	}

	encoded, err := cfg.ReadKey()
	if err != nil {
		return err
	}

	key, err := encryption.ParseKey(encoded)
	if err != nil {
		return fmt.Errorf("reading key: %w", err)
	}

	engine, err := encryption.NewEngine(key, engineOptions(cfg))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	var reporter progress.Reporter = progress.Nop{}
	if cfg.Progress && !cfg.Quiet {
		reporter = progress.NewBar(os.Stderr)
	}

	proc := encryption.NewProcessor(engine, afero.NewOsFs(), processorOptions(cfg), log, reporter)

	summary, err := proc.ProcessFiles(ctx, cfg.Files)

	if cfg.Stats {
		printStats(os.Stderr, scanned, excluded, summary, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

func engineOptions(cfg *config.Config) encryption.Options {
	opts := encryption.DefaultOptions()
	opts.EncryptChunkSize = cfg.EncryptChunk
	opts.DecryptChunkSize = cfg.DecryptChunk

	return opts
}

func processorOptions(cfg *config.Config) encryption.ProcessorOptions {
	return encryption.ProcessorOptions{
		Decrypt:            cfg.Decrypt,
		Parallel:           cfg.Parallel,
		EncryptSuffix:      cfg.EncryptSuffix,
		DecryptSuffix:      cfg.DecryptSuffix,
		PreserveTimestamps: cfg.PreserveTimestamps,
	}
}

// preamble resolves files and handles dry run. Returns done=true if dry run was executed.
func preamble(cfg *config.Config) (int, int, time.Time, bool, error) {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return 0, 0, start, false, fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	if cfg.Dry {
		dryRun(os.Stdout, cfg, scanned, excluded, start)

		return scanned, excluded, start, true, nil
	}

	return scanned, excluded, start, false, nil
}

// resolveFiles expands positional args and applies include/exclude filtering.
// Returns the total number of files scanned before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return 0, err
	}

	hasIncludes := len(cfg.Include) > 0 || cfg.IncludeFrom != ""

	if cfg.Decrypt && !hasIncludes {
		includes = append(includes, "*"+cfg.EncryptSuffix)
		hasIncludes = true
	}

	flt, err := discovery.NewFilter(includes, excludes, hasIncludes)
	if err != nil {
		return 0, fmt.Errorf("compiling patterns: %w", err)
	}

	files, scanned, err := discovery.Resolve(cfg.Files, flt)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// loadPatterns merges CLI and file-based include/exclude patterns.
func loadPatterns(cfg *config.Config) (includes, excludes []string, err error) {
	includes = append(includes, cfg.Include...)
	excludes = append(excludes, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := discovery.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := discovery.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return includes, excludes, nil
}

// dryRun previews what would be processed without actually encrypting/decrypting.
func dryRun(w io.Writer, cfg *config.Config, scanned, excluded int, start time.Time) {
	summary := encryption.Summary{Processed: len(cfg.Files)}
	opts := processorOptions(cfg)

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			fmt.Fprintf(w, "Would process %q -> %q\n", file, encryption.OutputPath(file, opts))
		}

		if cfg.Stats {
			if info, err := os.Stat(file); err == nil {
				summary.TotalSize += info.Size()
			}
		}
	}

	if cfg.Stats {
		printStats(os.Stderr, scanned, excluded, summary, time.Since(start))
	}
}

func printStats(w io.Writer, scanned, excluded int, summary encryption.Summary, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(w, "  Processed: %d\n", summary.Processed)
	fmt.Fprintf(w, "  Errors:    %d\n", summary.Errored)
	//nolint:gosec // TotalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, summary.TotalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}

package logic

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/encryption"
)

// RunGenerate writes a random hex key of cfg.Size bytes to w.
func RunGenerate(cfg *config.Config, w io.Writer) error {
	k, err := encryption.GenerateKey(cfg.Size)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	_, err = fmt.Fprintln(w, k.Hex())

	return err
}

// RunInspect prints the header of every container in cfg.Files to w.
// Unreadable or malformed containers are reported and skipped.
func RunInspect(cfg *config.Config, fsys afero.Fs, w io.Writer) error {
	var errs []error

	for _, file := range cfg.Files {
		header, ciphertext, err := encryption.InspectFile(fsys, file)
		if err != nil {
			errs = append(errs, fmt.Errorf("inspecting %q: %w", file, err))

			continue
		}

		fmt.Fprintf(w, "%s\n  length:     %d\n  iv:         %x\n  ciphertext: %d\n",
			file, header.Length, header.IV[:], ciphertext)
	}

	return errors.Join(errs...)
}

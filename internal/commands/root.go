package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gocbc/internal/config"
	"github.com/idelchi/gocbc/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// Flags are bound to viper together with GOCBC_* environment variables,
// the prefix coming from the command name.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gocbc [flags] command [flags]"
	root.Short = "Streaming AES-CBC file encryption"
	root.Long = `A file encryption utility that streams files through AES-CBC into
self-describing containers: plaintext length, IV, then ciphertext.
Containers are not authenticated.`
	root.SilenceUsage = true
	root.SilenceErrors = true

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("verbose", false, "Enable debug logging")

	flags.StringP("key", "k", "", "Encryption key (16, 24 or 32 bytes, hex-encoded)")
	flags.StringP("key-file", "f", "", "Path to the key file with the encryption key (16, 24 or 32 bytes, hex-encoded)")

	flags.String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.Int("encrypt-chunk", encryption.DefaultEncryptChunkSize, "Plaintext bytes read per step, multiple of 16")
	flags.Int("decrypt-chunk", encryption.DefaultDecryptChunkSize, "Ciphertext bytes read per step, multiple of 16")

	flags.StringSliceP("include", "i", nil, "Include only walked files matching these patterns")
	flags.StringSliceP("exclude", "e", nil, "Skip walked files matching these patterns")
	flags.String("include-from", "", "JSONC file with an array of include patterns")
	flags.String("exclude-from", "", "JSONC file with an array of exclude patterns")

	flags.Bool("dry", false, "List what would be processed without writing anything")
	flags.Bool("stats", false, "Print statistics when done")
	flags.Bool("progress", false, "Show a progress bar")
	flags.Bool("preserve-timestamps", false, "Copy the source modification time onto outputs")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewGenerateCommand(cfg),
		NewInspectCommand(cfg),
		NewCheckCommand(cfg),
	)

	return root
}

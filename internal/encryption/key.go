package encryption

import (
	"crypto/aes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/idelchi/gogen/pkg/key"
)

// BlockSize is the AES block size, which is also the IV size.
const BlockSize = aes.BlockSize

// Supported AES key sizes in bytes.
const (
	KeySize128 = 16
	KeySize192 = 24
	KeySize256 = 32
)

// Key is a validated AES key. It is never modified after validation.
type Key []byte

// IV is a CBC initialization vector.
type IV [BlockSize]byte

// ValidKeySize reports whether n is an AES-128, AES-192 or AES-256 key length.
func ValidKeySize(n int) bool {
	switch n {
	case KeySize128, KeySize192, KeySize256:
		return true
	default:
		return false
	}
}

// ValidateKey checks the length of raw and returns a private copy of it.
func ValidateKey(raw []byte) (Key, error) {
	if !ValidKeySize(len(raw)) {
		return nil, fmt.Errorf("%w: key must be 16, 24 or 32 bytes, got %d", ErrKey, len(raw))
	}

	k := make(Key, len(raw))
	copy(k, raw)

	return k, nil
}

// ParseKey decodes a hex encoded key and validates it.
// Surrounding whitespace, such as the trailing newline of a key file, is ignored.
func ParseKey(encoded string) (Key, error) {
	raw, err := key.FromHex(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding hex: %w", ErrKey, err)
	}

	return ValidateKey(raw)
}

// GenerateKey returns size random bytes suitable as a key.
func GenerateKey(size int) (Key, error) {
	if !ValidKeySize(size) {
		return nil, fmt.Errorf("%w: unsupported key size %d", ErrKey, size)
	}

	k, err := key.New(size)
	if err != nil {
		return nil, fmt.Errorf("%w: generating key: %w", ErrIO, err)
	}

	return Key(k), nil
}

// Hex returns the lowercase hex encoding of k, the form ParseKey accepts.
func (k Key) Hex() string {
	return key.Key(k).AsHex()
}

// GenerateIV returns a fresh IV from the operating system CSPRNG.
func GenerateIV() (IV, error) {
	var iv IV

	if _, err := io.ReadFull(rand.Reader, iv[:]); err != nil {
		return iv, fmt.Errorf("%w: generating IV: %w", ErrIO, err)
	}

	return iv, nil
}

package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Session is one CBC pass over a single container.
// The underlying block mode keeps the previous ciphertext block between calls to Crypt,
// so a message split into block-aligned chunks chains exactly like a one-shot encryption.
// A Session must not be shared between goroutines.
type Session struct {
	mode cipher.BlockMode
}

// NewEncryptSession starts a CBC encryption chain seeded with iv.
func NewEncryptSession(k Key, iv IV) (*Session, error) {
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %w", ErrKey, err)
	}

	return &Session{mode: cipher.NewCBCEncrypter(block, iv[:])}, nil
}

// NewDecryptSession starts a CBC decryption chain seeded with iv.
func NewDecryptSession(k Key, iv IV) (*Session, error) {
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %w", ErrKey, err)
	}

	return &Session{mode: cipher.NewCBCDecrypter(block, iv[:])}, nil
}

// Crypt transforms src into dst and advances the chain.
// src must be a whole number of blocks and dst at least as long as src.
func (s *Session) Crypt(dst, src []byte) error {
	if len(src)%BlockSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d byte block size", ErrFormat, len(src), BlockSize)
	}

	if len(dst) < len(src) {
		return fmt.Errorf("output buffer holds %d bytes, need %d", len(dst), len(src))
	}

	s.mode.CryptBlocks(dst[:len(src)], src)

	return nil
}

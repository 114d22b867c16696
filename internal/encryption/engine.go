package encryption

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultEncryptChunkSize is the plaintext read size used when encrypting.
	DefaultEncryptChunkSize = 64 * 1024
	// DefaultDecryptChunkSize is the ciphertext read size used when decrypting.
	DefaultDecryptChunkSize = 24 * 1024
	// DefaultFiller pads the final plaintext block up to the block size.
	DefaultFiller = ' '
)

// Options tune the chunk loop. They never change the container layout:
// any block-aligned chunk size decrypts any container.
type Options struct {
	// EncryptChunkSize is the number of plaintext bytes read per step. Must be a multiple of BlockSize.
	EncryptChunkSize int

	// DecryptChunkSize is the number of ciphertext bytes read per step. Must be a multiple of BlockSize.
	DecryptChunkSize int

	// Filler is appended to the last partial block before encryption.
	Filler byte
}

// DefaultOptions returns the 64 KiB / 24 KiB chunking with space filler.
func DefaultOptions() Options {
	return Options{
		EncryptChunkSize: DefaultEncryptChunkSize,
		DecryptChunkSize: DefaultDecryptChunkSize,
		Filler:           DefaultFiller,
	}
}

// Engine streams plaintext into containers and back.
// It holds only the key and buffer pools, so one Engine may serve many goroutines;
// every call creates its own IV and CBC session.
type Engine struct {
	key  Key
	opts Options

	encryptBuffers *bufferPool
	decryptBuffers *bufferPool
}

// NewEngine validates the key and chunk sizes and returns a ready Engine.
func NewEngine(raw []byte, opts Options) (*Engine, error) {
	k, err := ValidateKey(raw)
	if err != nil {
		return nil, err
	}

	for name, size := range map[string]int{
		"encrypt": opts.EncryptChunkSize,
		"decrypt": opts.DecryptChunkSize,
	} {
		if size <= 0 || size%BlockSize != 0 {
			return nil, fmt.Errorf("%s chunk size %d must be a positive multiple of %d", name, size, BlockSize)
		}
	}

	return &Engine{
		key:            k,
		opts:           opts,
		encryptBuffers: newBufferPool(opts.EncryptChunkSize),
		decryptBuffers: newBufferPool(opts.DecryptChunkSize),
	}, nil
}

// Encrypt writes a container for the length bytes read from src to dst.
// length is stored in the header and must match what src yields.
func (e *Engine) Encrypt(ctx context.Context, src io.Reader, dst io.Writer, length uint64) error {
	iv, err := GenerateIV()
	if err != nil {
		return err
	}

	session, err := NewEncryptSession(e.key, iv)
	if err != nil {
		return err
	}

	if err := WriteHeader(dst, Header{Length: length, IV: iv}); err != nil {
		return err
	}

	bufp := e.encryptBuffers.get()
	defer e.encryptBuffers.put(bufp)

	buf := *bufp

	var total uint64

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encrypting: %w", err)
		}

		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			total += uint64(n)

			chunk := buf[:n]

			// Only the final chunk can be short; pad it to the next block boundary.
			if rem := n % BlockSize; rem != 0 {
				chunk = buf[:n+BlockSize-rem]
				for i := n; i < len(chunk); i++ {
					chunk[i] = e.opts.Filler
				}
			}

			if err := session.Crypt(chunk, chunk); err != nil {
				return fmt.Errorf("encrypting chunk: %w", err)
			}

			if _, err := dst.Write(chunk); err != nil {
				return fmt.Errorf("%w: writing ciphertext: %w", ErrIO, err)
			}
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("%w: reading plaintext: %w", ErrIO, readErr)
		}
	}

	if total != length {
		return fmt.Errorf("%w: header records %d bytes but source yielded %d", ErrIO, length, total)
	}

	return nil
}

// Decrypt reads a container from src and writes exactly the original plaintext to dst.
// Filler is dropped by byte count using the header length; content is never inspected.
// There is no integrity check: altered ciphertext decrypts to altered plaintext without error.
//
// A stream that ends in a partial block is only detected at its last chunk, after the
// plaintext of earlier chunks has been written to dst. DecryptFile rejects such
// containers from their size before decrypting anything.
func (e *Engine) Decrypt(ctx context.Context, src io.Reader, dst io.Writer) (Header, error) {
	header, err := ReadHeader(src)
	if err != nil {
		return header, err
	}

	session, err := NewDecryptSession(e.key, header.IV)
	if err != nil {
		return header, err
	}

	bufp := e.decryptBuffers.get()
	defer e.decryptBuffers.put(bufp)

	buf := *bufp

	var (
		remaining = header.Length
		consumed  uint64
	)

	for {
		if err := ctx.Err(); err != nil {
			return header, fmt.Errorf("decrypting: %w", err)
		}

		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			if n%BlockSize != 0 {
				return header, fmt.Errorf("%w: ciphertext ends with a partial %d byte block", ErrFormat, n%BlockSize)
			}

			chunk := buf[:n]

			if err := session.Crypt(chunk, chunk); err != nil {
				return header, fmt.Errorf("decrypting chunk: %w", err)
			}

			consumed += uint64(n)

			if uint64(len(chunk)) > remaining {
				chunk = chunk[:remaining]
			}

			if len(chunk) > 0 {
				if _, err := dst.Write(chunk); err != nil {
					return header, fmt.Errorf("%w: writing plaintext: %w", ErrIO, err)
				}

				remaining -= uint64(len(chunk))
			}
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		if readErr != nil {
			return header, fmt.Errorf("%w: reading ciphertext: %w", ErrIO, readErr)
		}
	}

	if want := CiphertextSize(header.Length); consumed < want {
		return header, fmt.Errorf("%w: header records %d bytes, needs %d ciphertext bytes, found %d",
			ErrFormat, header.Length, want, consumed)
	}

	return header, nil
}

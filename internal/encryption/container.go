package encryption

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const lengthFieldSize = 8

// MaxLength is the largest plaintext length whose ciphertext size fits in a uint64.
const MaxLength = math.MaxUint64 - BlockSize + 1

// HeaderSize is the size of the container header: the original length followed by the IV.
const HeaderSize = lengthFieldSize + BlockSize

// Header is the fixed-size prefix of every container.
type Header struct {
	// Length is the size of the original plaintext in bytes.
	Length uint64

	// IV seeds the CBC chain of the ciphertext that follows.
	IV IV
}

// CiphertextSize returns the number of ciphertext bytes needed for length plaintext bytes.
// length must not exceed MaxLength.
func CiphertextSize(length uint64) uint64 {
	size := length / BlockSize * BlockSize
	if length%BlockSize != 0 {
		size += BlockSize
	}

	return size
}

// WriteHeader writes the little-endian length and the raw IV to w.
func WriteHeader(w io.Writer, h Header) error {
	if h.Length > MaxLength {
		return fmt.Errorf("%w: length %d exceeds %d", ErrFormat, h.Length, uint64(MaxLength))
	}

	var buf [HeaderSize]byte

	binary.LittleEndian.PutUint64(buf[:lengthFieldSize], h.Length)
	copy(buf[lengthFieldSize:], h.IV[:])

	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("%w: writing header: %w", ErrIO, err)
	}

	return nil
}

// ReadHeader reads a header from r.
// A stream that ends before HeaderSize bytes, or a length above MaxLength, is reported as ErrFormat.
func ReadHeader(r io.Reader) (Header, error) {
	var (
		buf [HeaderSize]byte
		h   Header
	)

	if n, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, fmt.Errorf("%w: header needs %d bytes, got %d", ErrFormat, HeaderSize, n)
		}

		return h, fmt.Errorf("%w: reading header: %w", ErrIO, err)
	}

	h.Length = binary.LittleEndian.Uint64(buf[:lengthFieldSize])
	copy(h.IV[:], buf[lengthFieldSize:])

	if h.Length > MaxLength {
		return h, fmt.Errorf("%w: header records %d bytes, more than any container can hold", ErrFormat, h.Length)
	}

	return h, nil
}

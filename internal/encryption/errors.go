package encryption

import "errors"

var (
	// ErrKey is returned when the key length is not a supported AES key size.
	ErrKey = errors.New("invalid key")
	// ErrFormat is returned when a container is too short for its header,
	// or its ciphertext is not aligned with the AES block size.
	ErrFormat = errors.New("invalid container")
	// ErrIO is returned when reading or writing the underlying streams fails.
	ErrIO = errors.New("i/o failure")
)

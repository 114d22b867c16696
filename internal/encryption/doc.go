// Package encryption streams files through AES-CBC into self-describing containers.
//
// A container is the 8-byte little-endian plaintext length, the 16-byte IV,
// then the ciphertext. The last partial block is padded with a filler byte and
// the stored length trims it again on decryption. Keys are 16, 24 or 32 bytes.
//
// Containers are not authenticated. Modified ciphertext decrypts without error
// to modified plaintext.
package encryption

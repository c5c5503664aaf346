// kdf.go: Password-based key derivation with PBKDF2-HMAC-SHA256.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"crypto/sha256"
	"fmt"

	goerrors "github.com/agilira/go-errors"
	pbkdf2 "golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters of the v1 format. They are part of the format:
// changing any of them makes existing envelopes undecryptable, so a new value
// needs a new version tag.
const (
	// Iterations is the PBKDF2 iteration count.
	Iterations = 75000

	// KeySize is the derived key size in bytes (AES-256).
	KeySize = 32

	// SaltSize is the random salt size in bytes.
	SaltSize = 32
)

// deriveFunc is the signature of the key derivation step. Crypter keeps it as
// a field so tests can observe whether derivation ran and inspect the key
// buffer after the call.
type deriveFunc func(password, salt []byte) ([]byte, error)

// DeriveKey derives a KeySize-byte key from password and salt using
// PBKDF2 with HMAC-SHA256 and Iterations rounds.
//
// The result is deterministic in (password, salt). DeriveKey does not wipe
// anything: the caller owns both the password and the returned key and
// should Zeroize them when done.
//
// Parameters:
//   - password: The password bytes (cannot be empty)
//   - salt: The salt (must be exactly SaltSize bytes)
//
// Returns:
//   - The derived key
//   - An error wrapping ErrKeyDerivation if the parameters are invalid
//
// Example:
//
//	key, err := crypter.DeriveKey([]byte("correct horse"), salt)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer crypter.Zeroize(key)
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		richErr := goerrors.New(ErrCodeKDF, "password cannot be empty")
		return nil, fmt.Errorf("%w: %w", ErrKeyDerivation, richErr)
	}
	if len(salt) != SaltSize {
		richErr := goerrors.New(ErrCodeKDF, fmt.Sprintf("salt must be %d bytes (got %d)", SaltSize, len(salt)))
		return nil, fmt.Errorf("%w: %w", ErrKeyDerivation, richErr)
	}

	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New), nil
}

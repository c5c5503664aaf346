// errors.go: Error taxonomy for password-based envelope encryption.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"errors"
)

// Public standard errors. Every error returned by Encrypt and Decrypt wraps
// exactly one of these, so callers can branch with errors.Is().
var (
	// ErrInvalidArgument is returned for a nil, empty or already wiped password,
	// an empty plaintext or an empty envelope string.
	ErrInvalidArgument = errors.New("crypter: invalid argument")

	// ErrFormat is returned when an envelope cannot be parsed: wrong number of
	// parts, unknown version, bad base64 or wrong salt/nonce/ciphertext length.
	ErrFormat = errors.New("crypter: invalid envelope format")

	// ErrAuthentication is returned when the GCM tag does not verify.
	// Wrong password, corruption and tampering are indistinguishable.
	ErrAuthentication = errors.New("crypter: authentication failed")

	// ErrKeyDerivation is returned when the key derivation function rejects its
	// parameters. With the fixed parameters this is a configuration fault.
	ErrKeyDerivation = errors.New("crypter: key derivation error")

	// ErrCipher is returned when AES/GCM cannot be initialized or the random
	// source fails.
	ErrCipher = errors.New("crypter: cipher error")
)

// Error codes for rich error handling
const (
	ErrCodeInvalidArgument = "CRYPTER_INVALID_ARGUMENT"
	ErrCodeFormat          = "CRYPTER_FORMAT"
	ErrCodeAuth            = "CRYPTER_AUTH"
	ErrCodeKDF             = "CRYPTER_KDF"
	ErrCodeCipher          = "CRYPTER_CIPHER"
	ErrCodeRandom          = "CRYPTER_RANDOM"
)

// User-facing messages returned by PublicMessage.
const (
	MessageInvalidArgument = "Password and text must not be empty"
	MessageInvalidInput    = "Invalid input"
	MessageFailure         = "Operation failed"
)

// PublicMessage maps an error from this package to the text a user interface
// may show. Format and authentication failures share one message so that a
// caller probing the envelope or guessing passwords learns nothing about which
// check failed.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return MessageInvalidArgument
	case errors.Is(err, ErrFormat), errors.Is(err, ErrAuthentication):
		return MessageInvalidInput
	default:
		return MessageFailure
	}
}

// IsFatal reports whether err comes from a primitive failure (key derivation,
// cipher setup or randomness) rather than from caller input.
func IsFatal(err error) bool {
	return errors.Is(err, ErrKeyDerivation) || errors.Is(err, ErrCipher)
}

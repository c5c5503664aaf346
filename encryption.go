// encryption.go: AES-256-GCM sealing with version, salt and nonce bound as AAD.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

const (
	// NonceSize is the GCM nonce size in bytes (96 bits).
	NonceSize = 12

	// TagSize is the GCM authentication tag size in bytes (128 bits).
	TagSize = 16
)

// newGCM builds an AES-256-GCM AEAD for key. AEADs are never cached.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		richErr := goerrors.New(ErrCodeCipher, fmt.Sprintf("invalid key size: must be %d bytes for AES-256 (got %d)", KeySize, len(key)))
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeCipher, "failed to create AES cipher")
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeCipher, "failed to create GCM cipher")
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}
	return gcm, nil
}

// associatedData returns version ‖ salt ‖ nonce.
func associatedData(salt, nonce []byte) []byte {
	aad := make([]byte, 0, len(FormatVersion)+len(salt)+len(nonce))
	aad = append(aad, FormatVersion...)
	aad = append(aad, salt...)
	return append(aad, nonce...)
}

// seal encrypts plaintext under key and nonce, authenticating aad.
// The returned slice is ciphertext followed by the 16-byte tag.
func seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		richErr := goerrors.New(ErrCodeCipher, fmt.Sprintf("nonce must be %d bytes (got %d)", gcm.NonceSize(), len(nonce)))
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}

	return gcm.Seal(nil, nonce, plaintext, aad), nil // #nosec G407 -- nonce is generated from crypto/rand per message
}

// open verifies and decrypts ciphertext‖tag. On tag mismatch it returns
// ErrAuthentication and no plaintext.
func open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		richErr := goerrors.New(ErrCodeCipher, fmt.Sprintf("nonce must be %d bytes (got %d)", gcm.NonceSize(), len(nonce)))
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeAuth, "GCM decryption failed (wrong password, tampered data, or AAD mismatch)")
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, richErr)
	}
	return plaintext, nil
}

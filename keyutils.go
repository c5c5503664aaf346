// keyutils.go: Random material generation and zeroization.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// Zeroize securely wipes a byte slice from memory.
//
// This function overwrites all bytes in the slice with zeros to prevent
// sensitive data from remaining in memory after use. It modifies the slice
// in place and is a no-op for nil or empty slices.
//
// Example:
//
//	key, _ := crypter.DeriveKey(password, salt)
//	defer crypter.Zeroize(key)
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// randomBytes fills a new slice of the given size from r.
// A short read is a fatal cipher fault: a predictable salt or a repeated
// nonce would break the scheme.
func randomBytes(r io.Reader, size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeRandom, fmt.Sprintf("failed to read %d random bytes", size))
		return nil, fmt.Errorf("%w: %w", ErrCipher, richErr)
	}
	return b, nil
}

// isZero reports whether every byte of b is zero.
func isZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

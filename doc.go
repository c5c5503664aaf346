// Package crypter provides password-based authenticated encryption of short
// text secrets such as passcodes, encryption keys and settings values.
//
// A key is derived from the password and a random 32-byte salt with
// PBKDF2-HMAC-SHA256 (75,000 iterations, 256-bit output) and the payload is
// sealed with AES-256-GCM under a random 96-bit nonce. The format version, the
// salt and the nonce are authenticated as associated data. The result is a
// single opaque string:
//
//	v1:<base64 salt>:<base64 nonce>:<base64 ciphertext||tag>
//
// # Quick Start
//
//	envelope, err := crypter.Encrypt(crypter.NewPassword("correct horse"), "secret message")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plaintext, err := crypter.Decrypt(crypter.NewPassword("correct horse"), envelope)
//	if err != nil {
//		fmt.Println(crypter.PublicMessage(err))
//		return
//	}
//	fmt.Println(plaintext) // Output: secret message
//
// # Key Material Hygiene
//
// Passwords are passed as *Password, a buffer that Encrypt and Decrypt wipe
// before returning, on success and on failure. Derived keys never leave the
// package and are zero-filled by a deferred call in the same function that
// produced them. Use PasswordFromBytes to hand over a buffer read from a
// terminal so that the original slice is cleared as well.
//
// # Errors
//
// Every returned error wraps one of ErrInvalidArgument, ErrFormat,
// ErrAuthentication, ErrKeyDerivation or ErrCipher and carries a coded
// github.com/agilira/go-errors error with details. Use PublicMessage to obtain
// text suitable for end users: format and authentication failures map to the
// same message, so a wrong password cannot be told apart from corrupted data.
//
// # Concurrency
//
// A *Crypter has no mutable state. Encrypt and Decrypt are safe for
// concurrent use; the only cost is the CPU-bound key derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package crypter

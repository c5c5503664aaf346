// crypter.go: Password-based Encrypt and Decrypt over the v1 envelope.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"crypto/rand"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
	"github.com/sirupsen/logrus"
)

// Config configures a Crypter. A nil *Config or zero fields select the
// defaults. Config never changes the cryptographic parameters of the format.
type Config struct {
	// Rand is the source of salts and nonces. It must be a cryptographically
	// secure, concurrency-safe reader. If nil, crypto/rand.Reader is used.
	Rand io.Reader `json:"-"`

	// Logger receives primitive failures (key derivation, cipher setup,
	// randomness). Secrets are never logged. If nil, logrus.StandardLogger()
	// is used.
	Logger logrus.FieldLogger `json:"-"`
}

// Crypter performs password-based envelope encryption. It holds no mutable
// state, so one value can be shared by any number of goroutines.
type Crypter struct {
	rand   io.Reader
	log    logrus.FieldLogger
	derive deriveFunc
}

var defaultCrypter = New(nil)

// New returns a Crypter configured by cfg (nil for defaults).
func New(cfg *Config) *Crypter {
	c := &Crypter{
		rand:   rand.Reader,
		log:    logrus.StandardLogger(),
		derive: DeriveKey,
	}
	if cfg != nil {
		if cfg.Rand != nil {
			c.rand = cfg.Rand
		}
		if cfg.Logger != nil {
			c.log = cfg.Logger
		}
	}
	return c
}

// Encrypt encrypts plaintext under password using the default Crypter.
// See (*Crypter).Encrypt.
func Encrypt(password *Password, plaintext string) (string, error) {
	return defaultCrypter.Encrypt(password, plaintext)
}

// Decrypt decrypts envelope under password using the default Crypter.
// See (*Crypter).Decrypt.
func Decrypt(password *Password, envelope string) (string, error) {
	return defaultCrypter.Decrypt(password, envelope)
}

// EncryptString is a convenience wrapper for callers that only have the
// password as a string. The internal copy is wiped; the string is not.
func EncryptString(password, plaintext string) (string, error) {
	return defaultCrypter.Encrypt(NewPassword(password), plaintext)
}

// DecryptString is the string-password counterpart of Decrypt.
func DecryptString(password, envelope string) (string, error) {
	return defaultCrypter.Decrypt(NewPassword(password), envelope)
}

// Encrypt derives a key from password and a fresh random salt, seals
// plaintext with AES-256-GCM under a fresh random nonce and returns the
// envelope string "v1:<salt>:<nonce>:<ciphertext>".
//
// The password is wiped before Encrypt returns, on every path. Two calls with
// identical arguments never produce the same envelope.
//
// Returns an error wrapping:
//   - ErrInvalidArgument for a nil, empty or wiped password or empty plaintext
//   - ErrKeyDerivation if key derivation rejects its parameters
//   - ErrCipher if the random source or the cipher fails
//
// Example:
//
//	envelope, err := crypter.Encrypt(crypter.NewPassword("correct horse"), "secret message")
//	if err != nil {
//		log.Println(crypter.PublicMessage(err))
//	}
func (c *Crypter) Encrypt(password *Password, plaintext string) (string, error) {
	defer password.Wipe()

	if password.IsWiped() || plaintext == "" {
		richErr := goerrors.New(ErrCodeInvalidArgument, "password and plaintext must be non-empty")
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}

	salt, err := randomBytes(c.rand, SaltSize)
	if err != nil {
		return "", c.fatal("encrypt", err)
	}
	nonce, err := randomBytes(c.rand, NonceSize)
	if err != nil {
		return "", c.fatal("encrypt", err)
	}

	var key []byte
	defer func() { Zeroize(key) }()

	key, err = c.derive(password.Bytes(), salt)
	if err != nil {
		return "", c.fatal("encrypt", err)
	}

	plain := secretCopy(plaintext)
	defer putBuffer(plain)

	ciphertext, err := seal(key, nonce, associatedData(salt, nonce), *plain)
	if err != nil {
		return "", c.fatal("encrypt", err)
	}

	return Envelope{
		Version:    FormatVersion,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}.String(), nil
}

// Decrypt parses envelope, derives the key from the embedded salt and opens
// the ciphertext. The envelope is validated before any key derivation.
//
// The password is wiped before Decrypt returns, on every path.
//
// Returns an error wrapping:
//   - ErrInvalidArgument for a nil, empty or wiped password or empty envelope
//   - ErrFormat for a malformed envelope
//   - ErrAuthentication if the tag does not verify (wrong password or tampering)
//   - ErrKeyDerivation or ErrCipher for primitive failures
func (c *Crypter) Decrypt(password *Password, envelope string) (string, error) {
	defer password.Wipe()

	if password.IsWiped() || envelope == "" {
		richErr := goerrors.New(ErrCodeInvalidArgument, "password and input must be non-empty")
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, richErr)
	}

	env, err := ParseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	var key []byte
	defer func() { Zeroize(key) }()

	key, err = c.derive(password.Bytes(), env.Salt)
	if err != nil {
		return "", c.fatal("decrypt", err)
	}

	plain, err := open(key, env.Nonce, associatedData(env.Salt, env.Nonce), env.Ciphertext)
	if err != nil {
		if IsFatal(err) {
			return "", c.fatal("decrypt", err)
		}
		return "", err
	}
	defer Zeroize(plain)

	return string(plain), nil
}

// fatal logs a primitive failure and returns it unchanged.
func (c *Crypter) fatal(op string, err error) error {
	c.log.WithFields(logrus.Fields{
		"component": "crypter",
		"operation": op,
	}).WithError(err).Error("cryptographic primitive failure")
	return err
}

// kdf_test.go: Test cases for PBKDF2 key derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pbkdf2 "golang.org/x/crypto/pbkdf2"

	"github.com/agilira/crypter"
)

func testSalt(b byte) []byte {
	return bytes.Repeat([]byte{b}, crypter.SaltSize)
}

func TestDeriveKey_Parameters(t *testing.T) {
	assert.Equal(t, 75000, crypter.Iterations)
	assert.Equal(t, 32, crypter.KeySize)
	assert.Equal(t, 32, crypter.SaltSize)
}

func TestDeriveKey_MatchesPBKDF2SHA256(t *testing.T) {
	password := []byte("correct horse")
	salt := testSalt(0x5a)

	key, err := crypter.DeriveKey(password, salt)
	require.NoError(t, err)
	require.Len(t, key, crypter.KeySize)

	expected := pbkdf2.Key(password, salt, 75000, 32, sha256.New)
	assert.Equal(t, expected, key)
}

func TestDeriveKey_KnownAnswer(t *testing.T) {
	salt := make([]byte, crypter.SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	key, err := crypter.DeriveKey([]byte("correct horse battery staple"), salt)
	require.NoError(t, err)
	assert.Equal(t, "56198e2589d4c52e2236541fd11d6c8476203e9574a17619124d65adfe99ce65", hex.EncodeToString(key))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1, err := crypter.DeriveKey([]byte("pw"), testSalt(1))
	require.NoError(t, err)
	k2, err := crypter.DeriveKey([]byte("pw"), testSalt(1))
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := crypter.DeriveKey([]byte("pw"), testSalt(2))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "different salt must give a different key")

	k4, err := crypter.DeriveKey([]byte("pW"), testSalt(1))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4, "different password must give a different key")
}

func TestDeriveKey_DoesNotTouchInputs(t *testing.T) {
	password := []byte("keep me")
	salt := testSalt(7)

	_, err := crypter.DeriveKey(password, salt)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep me"), password)
	assert.Equal(t, testSalt(7), salt)
}

func TestDeriveKey_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		password []byte
		salt     []byte
	}{
		{"NilPassword", nil, testSalt(1)},
		{"EmptyPassword", []byte{}, testSalt(1)},
		{"NilSalt", []byte("pw"), nil},
		{"ShortSalt", []byte("pw"), make([]byte, 16)},
		{"LongSalt", []byte("pw"), make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := crypter.DeriveKey(tt.password, tt.salt)
			assert.ErrorIs(t, err, crypter.ErrKeyDerivation)
			assert.Nil(t, key)
			assert.True(t, crypter.IsFatal(err))
		})
	}
}

func TestZeroize(t *testing.T) {
	key, err := crypter.DeriveKey([]byte("pw"), testSalt(3))
	require.NoError(t, err)
	require.NotEqual(t, make([]byte, crypter.KeySize), key)

	crypter.Zeroize(key)
	assert.Equal(t, make([]byte, crypter.KeySize), key)

	crypter.Zeroize(nil)
	crypter.Zeroize([]byte{})
}

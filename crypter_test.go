// crypter_test.go: Public Encrypt/Decrypt behaviour with the real key derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilira/crypter"
)

func TestEncryptDecrypt_ConcreteScenario(t *testing.T) {
	envelope, err := crypter.Encrypt(crypter.NewPassword("correct horse"), "secret message")
	require.NoError(t, err)

	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 4)
	assert.Equal(t, "v1", parts[0])
	assert.Len(t, parts[1], 44, "32-byte salt encodes to 44 base64 chars")
	assert.Len(t, parts[2], 16, "12-byte nonce encodes to 16 base64 chars")
	// 14 bytes plaintext + 16 bytes tag = 30 bytes -> 40 chars
	assert.Len(t, parts[3], 40)

	plaintext, err := crypter.Decrypt(crypter.NewPassword("correct horse"), envelope)
	require.NoError(t, err)
	assert.Equal(t, "secret message", plaintext)
}

// knownEnvelope is "known answer" sealed under "correct horse battery staple"
// with salt 0x00..0x1f and nonce 0x20..0x2b, computed with an independent
// PBKDF2-SHA256 / AES-256-GCM implementation.
const knownEnvelope = "v1:AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=:ICEiIyQlJicoKSor:FfDD+kfIn+8gZsOM0SWa581gZM1C3cBNzbK9ag=="

func fixedRandom() *bytes.Reader {
	material := make([]byte, crypter.SaltSize+crypter.NonceSize)
	for i := range material {
		material[i] = byte(i)
	}
	return bytes.NewReader(material)
}

func TestEncrypt_KnownAnswer(t *testing.T) {
	c := crypter.New(&crypter.Config{Rand: fixedRandom()})

	envelope, err := c.Encrypt(crypter.NewPassword("correct horse battery staple"), "known answer")
	require.NoError(t, err)
	assert.Equal(t, knownEnvelope, envelope)
}

func TestDecrypt_KnownAnswer(t *testing.T) {
	plaintext, err := crypter.DecryptString("correct horse battery staple", knownEnvelope)
	require.NoError(t, err)
	assert.Equal(t, "known answer", plaintext)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		plaintext string
	}{
		{"ASCII", "pw", "hello"},
		{"SingleChar", "p", "x"},
		{"Unicode", "пароль-日本", "секрет ключ 秘密 🔑"},
		{"ContainsSeparator", "a:b:c", "plain:text:with:colons"},
		{"Whitespace", " \t ", "line one\nline two\r\n"},
		{"Long", strings.Repeat("p", 256), strings.Repeat("payload ", 512)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := crypter.Encrypt(crypter.NewPassword(tt.password), tt.plaintext)
			require.NoError(t, err)

			got, err := crypter.Decrypt(crypter.NewPassword(tt.password), envelope)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	a, err := crypter.EncryptString("same password", "same text")
	require.NoError(t, err)
	b, err := crypter.EncryptString("same password", "same text")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	pa, pb := strings.Split(a, ":"), strings.Split(b, ":")
	assert.NotEqual(t, pa[1], pb[1], "salt must be fresh per call")
	assert.NotEqual(t, pa[2], pb[2], "nonce must be fresh per call")
}

func TestDecrypt_WrongPassword(t *testing.T) {
	envelope, err := crypter.EncryptString("password one", "top secret")
	require.NoError(t, err)

	plaintext, err := crypter.DecryptString("password two", envelope)
	require.Error(t, err)
	assert.ErrorIs(t, err, crypter.ErrAuthentication)
	assert.Empty(t, plaintext)
}

func TestDecrypt_UnsupportedVersion(t *testing.T) {
	_, err := crypter.DecryptString("pw", "v2:AAAA:BBBB:CCCC")
	require.Error(t, err)
	assert.ErrorIs(t, err, crypter.ErrFormat)
	assert.False(t, errors.Is(err, crypter.ErrAuthentication))
}

func TestDecrypt_TamperedSegments(t *testing.T) {
	envelope, err := crypter.EncryptString("pw", "integrity matters")
	require.NoError(t, err)

	for idx := 1; idx <= 3; idx++ {
		t.Run(fmt.Sprintf("Segment%d", idx), func(t *testing.T) {
			env, err := crypter.ParseEnvelope(envelope)
			require.NoError(t, err)
			switch idx {
			case 1:
				env.Salt[0] ^= 0x80
			case 2:
				env.Nonce[len(env.Nonce)-1] ^= 0x80
			case 3:
				env.Ciphertext[len(env.Ciphertext)/2] ^= 0x80
			}

			plaintext, err := crypter.DecryptString("pw", env.String())
			assert.ErrorIs(t, err, crypter.ErrAuthentication)
			assert.Empty(t, plaintext)
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	_, err := crypter.EncryptString("", "text")
	assert.ErrorIs(t, err, crypter.ErrInvalidArgument)

	_, err = crypter.EncryptString("pw", "")
	assert.ErrorIs(t, err, crypter.ErrInvalidArgument)

	_, err = crypter.Encrypt(nil, "text")
	assert.ErrorIs(t, err, crypter.ErrInvalidArgument)

	_, err = crypter.DecryptString("", "v1:a:b:c")
	assert.ErrorIs(t, err, crypter.ErrInvalidArgument)

	_, err = crypter.DecryptString("pw", "")
	assert.ErrorIs(t, err, crypter.ErrInvalidArgument)
}

func TestPublicMessage(t *testing.T) {
	envelope, err := crypter.EncryptString("right", "data")
	require.NoError(t, err)

	_, authErr := crypter.DecryptString("wrong", envelope)
	_, formatErr := crypter.DecryptString("right", "v1:garbage")
	_, argErr := crypter.EncryptString("right", "")

	assert.Equal(t, crypter.MessageInvalidInput, crypter.PublicMessage(authErr))
	assert.Equal(t, crypter.PublicMessage(authErr), crypter.PublicMessage(formatErr),
		"wrong password and corrupted data must look the same to users")
	assert.Equal(t, crypter.MessageInvalidArgument, crypter.PublicMessage(argErr))
	assert.Equal(t, crypter.MessageFailure, crypter.PublicMessage(crypter.ErrCipher))
	assert.Equal(t, crypter.MessageFailure, crypter.PublicMessage(crypter.ErrKeyDerivation))
	assert.Empty(t, crypter.PublicMessage(nil))

	assert.False(t, crypter.IsFatal(authErr))
	assert.True(t, crypter.IsFatal(crypter.ErrCipher))
}

func TestPassword_Wipe(t *testing.T) {
	buf := []byte("terminal input")
	pw := crypter.PasswordFromBytes(buf)
	assert.Equal(t, len(buf), pw.Len())
	assert.False(t, pw.IsWiped())

	pw.Wipe()
	assert.True(t, pw.IsWiped())
	assert.Equal(t, make([]byte, len(buf)), buf, "caller's slice must be zero-filled")

	pw.Wipe() // idempotent

	var nilPw *crypter.Password
	nilPw.Wipe()
	assert.True(t, nilPw.IsWiped())
	assert.Nil(t, nilPw.Bytes())
}

func TestPassword_NewPasswordCopies(t *testing.T) {
	s := "copied"
	pw := crypter.NewPassword(s)
	assert.Equal(t, []byte(s), pw.Bytes())

	pw.Wipe()
	assert.Equal(t, "copied", s)
}

func TestNew_CustomConfig(t *testing.T) {
	c := crypter.New(&crypter.Config{})
	envelope, err := c.Encrypt(crypter.NewPassword("pw"), "configured")
	require.NoError(t, err)

	// instances share the format
	got, err := crypter.Decrypt(crypter.NewPassword("pw"), envelope)
	require.NoError(t, err)
	assert.Equal(t, "configured", got)
}

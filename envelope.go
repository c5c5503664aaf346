// envelope.go: Textual envelope codec "v1:<salt>:<nonce>:<ciphertext>".
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"encoding/base64"
	"fmt"
	"strings"

	goerrors "github.com/agilira/go-errors"
)

const (
	// FormatVersion is the only envelope version this package reads or writes.
	// It is also the first component of the associated data.
	FormatVersion = "v1"

	// Separator splits the envelope fields.
	Separator = ":"

	envelopeParts = 4
)

// b64 is the standard padded alphabet without line wrapping. Strict decoding
// rejects non-canonical trailing bits so each envelope has a single textual
// form.
var b64 = base64.StdEncoding.Strict()

// Envelope is the parsed form of an encrypted message.
//
// Only salt, nonce and ciphertext are carried; the plaintext never appears in
// the envelope, so no escaping is ever needed.
type Envelope struct {
	Version    string
	Salt       []byte // SaltSize bytes, not secret
	Nonce      []byte // NonceSize bytes, unique per message
	Ciphertext []byte // ciphertext followed by the GCM tag
}

// String serializes the envelope as
// "v1:" + b64(salt) + ":" + b64(nonce) + ":" + b64(ciphertext).
func (e Envelope) String() string {
	var sb strings.Builder
	sb.Grow(len(e.Version) + 3 + b64.EncodedLen(len(e.Salt)) + b64.EncodedLen(len(e.Nonce)) + b64.EncodedLen(len(e.Ciphertext)))
	sb.WriteString(e.Version)
	sb.WriteString(Separator)
	sb.WriteString(b64.EncodeToString(e.Salt))
	sb.WriteString(Separator)
	sb.WriteString(b64.EncodeToString(e.Nonce))
	sb.WriteString(Separator)
	sb.WriteString(b64.EncodeToString(e.Ciphertext))
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (e Envelope) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseEnvelope.
func (e *Envelope) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvelope(string(text))
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

// ParseEnvelope parses and length-checks an envelope string.
//
// It fails with ErrFormat when the string does not split into exactly four
// colon-separated parts, when the version is not FormatVersion, when a
// segment is not canonical base64, or when the salt, nonce or ciphertext has
// the wrong decoded length. No key derivation happens here, so malformed input
// is rejected cheaply.
//
// Example:
//
//	env, err := crypter.ParseEnvelope(stored)
//	if err != nil {
//		return err // errors.Is(err, crypter.ErrFormat)
//	}
func ParseEnvelope(s string) (*Envelope, error) {
	parts := strings.SplitN(s, Separator, envelopeParts)
	if len(parts) != envelopeParts {
		return nil, formatError(fmt.Sprintf("expected %d parts, got %d", envelopeParts, len(parts)))
	}
	if parts[0] != FormatVersion {
		return nil, formatError("unsupported version")
	}

	salt, err := decodeSegment(parts[1])
	if err != nil {
		return nil, err
	}
	nonce, err := decodeSegment(parts[2])
	if err != nil {
		return nil, err
	}
	ciphertext, err := decodeSegment(parts[3])
	if err != nil {
		return nil, err
	}

	if len(salt) != SaltSize || len(nonce) != NonceSize {
		return nil, formatError("invalid salt or nonce length")
	}
	if len(ciphertext) < TagSize {
		return nil, formatError("ciphertext shorter than authentication tag")
	}

	return &Envelope{
		Version:    parts[0],
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// decodeSegment decodes one base64 field. encoding/base64 silently drops CR
// and LF, so whitespace is rejected before decoding.
func decodeSegment(seg string) ([]byte, error) {
	if seg == "" {
		return nil, formatError("empty segment")
	}
	if strings.ContainsAny(seg, " \t\r\n") {
		return nil, formatError("whitespace in segment")
	}
	out, err := b64.DecodeString(seg)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeFormat, "failed to decode base64 segment")
		return nil, fmt.Errorf("%w: %w", ErrFormat, richErr)
	}
	return out, nil
}

func formatError(msg string) error {
	richErr := goerrors.New(ErrCodeFormat, msg)
	return fmt.Errorf("%w: %w", ErrFormat, richErr)
}

// password.go: Wipeable password buffer.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

// Password holds the UTF-8 bytes of a user password in a buffer that can be
// zero-filled on demand.
//
// A Password is single use: Encrypt and Decrypt wipe it before they return,
// whatever the outcome. Create a new Password for every call.
//
// Example:
//
//	pw := crypter.NewPassword("correct horse")
//	envelope, err := crypter.Encrypt(pw, "secret message")
//	// pw.IsWiped() == true here
type Password struct {
	buf []byte
}

// NewPassword copies s into a new wipeable buffer.
//
// The string itself is immutable and cannot be cleared; prefer
// PasswordFromBytes when the password is already available as a byte slice.
func NewPassword(s string) *Password {
	buf := make([]byte, len(s))
	copy(buf, s)
	return &Password{buf: buf}
}

// PasswordFromBytes takes ownership of b without copying it.
// Wiping the returned Password zero-fills b.
func PasswordFromBytes(b []byte) *Password {
	return &Password{buf: b}
}

// Bytes returns the underlying buffer. The slice is only valid until Wipe.
func (p *Password) Bytes() []byte {
	if p == nil {
		return nil
	}
	return p.buf
}

// Len returns the password length in bytes.
func (p *Password) Len() int {
	if p == nil {
		return 0
	}
	return len(p.buf)
}

// IsWiped reports whether the password has been wiped or was empty.
func (p *Password) IsWiped() bool {
	return p.Len() == 0
}

// Wipe zero-fills the buffer and truncates it. Safe to call more than once
// and on a nil Password.
func (p *Password) Wipe() {
	if p == nil {
		return
	}
	Zeroize(p.buf)
	p.buf = p.buf[:0]
}

// input.go: Password prompt and text input for the crypter command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/agilira/crypter"
	"github.com/agilira/crypter/settings"
)

// readPassword returns the password from CRYPTER_PASSWORD or a no-echo
// terminal prompt. The returned Password owns the only copy of the bytes.
func readPassword(ctx context.Context, cfg *config, prompt string) (*crypter.Password, error) {
	if cfg.Password != "" {
		return crypter.NewPassword(cfg.Password), nil
	}

	password, err := promptSecret(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return crypter.PasswordFromBytes(password), nil
}

// readSecret is readPassword for the settings API, which takes strings.
func readSecret(ctx context.Context, cfg *config, prompt string) (string, error) {
	password, err := readPassword(ctx, cfg, prompt)
	if err != nil {
		return "", err
	}
	defer password.Wipe()
	return string(password.Bytes()), nil
}

// readKey reads an encryption key without echo from a terminal, or from
// stdin when it is not one. CRYPTER_PASSWORD is never used for keys.
func readKey(ctx context.Context, prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return readText(ctx, nil)
	}
	key, err := promptSecret(ctx, prompt)
	if err != nil {
		return "", err
	}
	defer crypter.Zeroize(key)
	return string(key), nil
}

// promptSecret reads one line without echo. If ctx is cancelled while the
// prompt is open, the terminal state is restored before returning.
func promptSecret(ctx context.Context, prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; set CRYPTER_PASSWORD")
	}

	state, err := term.GetState(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal state: %w", err)
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := readContext(ctx, func() ([]byte, error) { return term.ReadPassword(fd) })
	fmt.Fprintln(os.Stderr)
	if ctx.Err() != nil {
		_ = term.Restore(fd, state)
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}

// readText joins args, or reads stdin when there are none. One trailing
// newline is dropped.
func readText(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := readContext(ctx, func() ([]byte, error) { return io.ReadAll(os.Stdin) })
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

// readContext runs read and returns its result, or ctx.Err() as soon as ctx
// is done. The blocked read is abandoned; the process exits right after.
func readContext(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := read()
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// userMessage hides crypter details behind the public messages and keeps
// settings and usage errors readable.
func userMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, settings.ErrWrongPasscode):
		return "wrong passcode"
	case errors.Is(err, settings.ErrNotConfigured), errors.Is(err, settings.ErrInvalidSetting),
		errors.Is(err, settings.ErrPasscodeExists):
		return err.Error()
	case errors.Is(err, crypter.ErrInvalidArgument), errors.Is(err, crypter.ErrFormat),
		errors.Is(err, crypter.ErrAuthentication), crypter.IsFatal(err):
		return crypter.PublicMessage(err)
	default:
		return err.Error()
	}
}

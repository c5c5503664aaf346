// Package settings keeps the passcode, the encryption key and the lock
// timeout of a locked application in a key-value Store.
//
// Secret values are sealed with crypter and stored as opaque envelope
// strings. Two backends are provided: MemoryStore for tests and embedding,
// and BoltStore for a single-file bbolt database.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package settings

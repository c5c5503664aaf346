// settings.go: Passcode, encryption key and lock timeout kept as envelopes.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	"github.com/sirupsen/logrus"

	"github.com/agilira/crypter"
)

// Setting names, also used as store keys.
const (
	NamePasscode      = "passcode"
	NameEncryptionKey = "encryption_key"
	NameLockTimeout   = "lock_timeout"

	updatedSuffix = ".updated_at"
)

// Defaults applied when the corresponding Config field is zero.
const (
	DefaultMinKeyLength      = 3
	DefaultMinPasscodeLength = 2
	DefaultLockTimeout       = 30 * time.Second
)

// MaxLockTimeoutSeconds is the largest lock timeout that fits a time.Duration.
const MaxLockTimeoutSeconds = math.MaxInt64 / int64(time.Second)

var (
	// ErrInvalidSetting is returned when a value fails validation.
	ErrInvalidSetting = errors.New("settings: invalid value")

	// ErrWrongPasscode is returned when the supplied passcode does not open
	// the stored passcode envelope.
	ErrWrongPasscode = errors.New("settings: wrong passcode")

	// ErrNotConfigured is returned when a required setting has never been set.
	ErrNotConfigured = errors.New("settings: not configured")

	// ErrPasscodeExists is returned by SetPasscode when a passcode is already
	// stored; use ChangePasscode instead.
	ErrPasscodeExists = errors.New("settings: passcode already set")

	// ErrStore wraps failures of the underlying Store.
	ErrStore = errors.New("settings: store error")
)

// Error codes for rich error handling
const (
	ErrCodeInvalidSetting = "SETTINGS_INVALID"
	ErrCodeWrongPasscode  = "SETTINGS_WRONG_PASSCODE"
	ErrCodeNotConfigured  = "SETTINGS_NOT_CONFIGURED"
	ErrCodePasscodeExists = "SETTINGS_PASSCODE_EXISTS"
	ErrCodeStore          = "SETTINGS_STORE"
)

// Config configures Settings. Zero fields select the defaults.
type Config struct {
	// MinKeyLength is the minimum encryption key length in characters.
	MinKeyLength int `json:"min_key_length,omitempty"`

	// MinPasscodeLength is the minimum passcode length in characters.
	MinPasscodeLength int `json:"min_passcode_length,omitempty"`

	// DefaultLockTimeout is returned by LockTimeout when none is stored.
	DefaultLockTimeout time.Duration `json:"default_lock_timeout,omitempty"`

	// Crypter seals the secret settings. If nil, a Crypter sharing Logger is
	// created.
	Crypter *crypter.Crypter `json:"-"`

	// Logger receives store failures. If nil, logrus.StandardLogger() is used.
	Logger logrus.FieldLogger `json:"-"`
}

// Settings stores the application secrets in a Store.
//
// The passcode is stored encrypted under itself, so checking a candidate is
// an authenticated decryption. The encryption key is stored encrypted under
// the passcode. The lock timeout is not secret and is stored in clear.
//
// Settings is an explicitly constructed object: create one per Store and pass
// it to whatever needs the persisted values.
type Settings struct {
	mu      sync.Mutex // serializes writes
	store   Store
	crypter *crypter.Crypter
	log     logrus.FieldLogger

	minKeyLength      int
	minPasscodeLength int
	defaultTimeout    time.Duration
}

// New returns Settings over store configured by cfg (nil for defaults).
func New(store Store, cfg *Config) (*Settings, error) {
	if store == nil {
		return nil, goerrors.New(ErrCodeStore, "store cannot be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	s := &Settings{
		store:             store,
		crypter:           cfg.Crypter,
		log:               cfg.Logger,
		minKeyLength:      cfg.MinKeyLength,
		minPasscodeLength: cfg.MinPasscodeLength,
		defaultTimeout:    cfg.DefaultLockTimeout,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.crypter == nil {
		s.crypter = crypter.New(&crypter.Config{Logger: s.log})
	}
	if s.minKeyLength <= 0 {
		s.minKeyLength = DefaultMinKeyLength
	}
	if s.minPasscodeLength <= 0 {
		s.minPasscodeLength = DefaultMinPasscodeLength
	}
	if s.defaultTimeout <= 0 {
		s.defaultTimeout = DefaultLockTimeout
	}
	return s, nil
}

// HasPasscode reports whether a passcode has been stored.
func (s *Settings) HasPasscode() (bool, error) {
	_, ok, err := s.get(NamePasscode)
	return ok, err
}

// SetPasscode stores the first passcode. It fails with ErrPasscodeExists if
// one is already stored.
func (s *Settings) SetPasscode(passcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validatePasscode(passcode); err != nil {
		return err
	}
	_, ok, err := s.get(NamePasscode)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: %w", ErrPasscodeExists, goerrors.New(ErrCodePasscodeExists, "use ChangePasscode to replace the passcode"))
	}

	return s.putSecret(NamePasscode, passcode, passcode)
}

// VerifyPasscode reports whether candidate matches the stored passcode.
// A wrong or empty candidate yields false with a nil error; ErrNotConfigured
// is returned when no passcode exists.
func (s *Settings) VerifyPasscode(candidate string) (bool, error) {
	stored, ok, err := s.get(NamePasscode)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, notConfigured(NamePasscode)
	}
	if candidate == "" {
		return false, nil
	}

	saved, err := s.crypter.Decrypt(crypter.NewPassword(candidate), stored)
	if errors.Is(err, crypter.ErrAuthentication) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(saved), []byte(candidate)) == 1, nil
}

// ChangePasscode replaces the passcode and re-encrypts the stored encryption
// key under the new one.
func (s *Settings) ChangePasscode(oldPasscode, newPasscode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePasscode(oldPasscode); err != nil {
		return err
	}
	if err := s.validatePasscode(newPasscode); err != nil {
		return err
	}

	key, hasKey, err := s.getSecret(NameEncryptionKey, oldPasscode)
	if err != nil {
		return err
	}

	// Without PutBatch the key is written first; an interrupted change then
	// leaves the old passcode in place.
	var entries []Entry
	if hasKey {
		keyEntries, err := s.secretEntries(NameEncryptionKey, newPasscode, key)
		if err != nil {
			return err
		}
		entries = append(entries, keyEntries...)
	}
	passEntries, err := s.secretEntries(NamePasscode, newPasscode, newPasscode)
	if err != nil {
		return err
	}
	return s.putAll(append(entries, passEntries...))
}

// SetEncryptionKey stores key encrypted under passcode, which must match the
// stored passcode.
func (s *Settings) SetEncryptionKey(passcode, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if utf8.RuneCountInString(key) < s.minKeyLength {
		return invalid(fmt.Sprintf("encryption key must be at least %d characters", s.minKeyLength))
	}
	if err := s.requirePasscode(passcode); err != nil {
		return err
	}
	return s.putSecret(NameEncryptionKey, passcode, key)
}

// EncryptionKey returns the stored encryption key, decrypted with passcode.
func (s *Settings) EncryptionKey(passcode string) (string, error) {
	key, ok, err := s.getSecret(NameEncryptionKey, passcode)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", notConfigured(NameEncryptionKey)
	}
	return key, nil
}

// SetLockTimeout stores the lock timeout given as a decimal number of
// seconds. Surrounding whitespace is ignored; negative values are rejected.
func (s *Settings) SetLockTimeout(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, goerrors.Wrap(err, ErrCodeInvalidSetting, "lock timeout must be a whole number of seconds"))
	}
	if seconds < 0 {
		return invalid("lock timeout cannot be negative")
	}
	if seconds > MaxLockTimeoutSeconds {
		return invalid(fmt.Sprintf("lock timeout cannot exceed %d seconds", MaxLockTimeoutSeconds))
	}

	return s.putAll([]Entry{
		{Key: NameLockTimeout, Value: strconv.FormatInt(seconds, 10)},
		s.timestamp(NameLockTimeout),
	})
}

// LockTimeout returns the stored lock timeout, or the configured default when
// none has been set.
func (s *Settings) LockTimeout() (time.Duration, error) {
	raw, ok, err := s.get(NameLockTimeout)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.defaultTimeout, nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds < 0 || seconds > MaxLockTimeoutSeconds {
		return 0, invalid("stored lock timeout is corrupted")
	}
	return time.Duration(seconds) * time.Second, nil
}

// UpdatedAt returns when the named setting was last written.
func (s *Settings) UpdatedAt(name string) (time.Time, bool, error) {
	raw, ok, err := s.get(name + updatedSuffix)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, invalid("stored timestamp is corrupted")
	}
	return ts, true, nil
}

// Reset removes every stored setting after checking passcode. The encryption
// key goes first and the passcode last, so an interrupted reset never leaves
// a key behind without the passcode that opens it.
func (s *Settings) Reset(passcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePasscode(passcode); err != nil {
		return err
	}

	for _, name := range []string{NameEncryptionKey, NameLockTimeout, NamePasscode} {
		if err := s.delete(name); err != nil {
			return err
		}
		if err := s.delete(name + updatedSuffix); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) validatePasscode(passcode string) error {
	if utf8.RuneCountInString(passcode) < s.minPasscodeLength {
		return invalid(fmt.Sprintf("passcode must be at least %d characters", s.minPasscodeLength))
	}
	return nil
}

// requirePasscode fails with ErrWrongPasscode unless passcode verifies.
func (s *Settings) requirePasscode(passcode string) error {
	ok, err := s.VerifyPasscode(passcode)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrWrongPasscode, goerrors.New(ErrCodeWrongPasscode, "passcode does not match"))
	}
	return nil
}

// getSecret decrypts the named setting with passcode. An authentication
// failure is reported as ErrWrongPasscode.
func (s *Settings) getSecret(name, passcode string) (string, bool, error) {
	stored, ok, err := s.get(name)
	if err != nil || !ok {
		return "", false, err
	}
	value, err := s.crypter.Decrypt(crypter.NewPassword(passcode), stored)
	if errors.Is(err, crypter.ErrAuthentication) || errors.Is(err, crypter.ErrInvalidArgument) {
		return "", false, fmt.Errorf("%w: %w", ErrWrongPasscode, err)
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Settings) putSecret(name, passcode, value string) error {
	entries, err := s.secretEntries(name, passcode, value)
	if err != nil {
		return err
	}
	return s.putAll(entries)
}

// secretEntries seals value under passcode and pairs it with its timestamp.
func (s *Settings) secretEntries(name, passcode, value string) ([]Entry, error) {
	envelope, err := s.crypter.Encrypt(crypter.NewPassword(passcode), value)
	if err != nil {
		return nil, err
	}
	return []Entry{{Key: name, Value: envelope}, s.timestamp(name)}, nil
}

func (s *Settings) timestamp(name string) Entry {
	return Entry{Key: name + updatedSuffix, Value: timecache.CachedTime().UTC().Format(time.RFC3339Nano)}
}

// putAll writes entries in one PutBatch when the store supports it, otherwise
// one Put at a time in order.
func (s *Settings) putAll(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if b, ok := s.store.(Batcher); ok {
		if err := b.PutBatch(entries); err != nil {
			return s.storeError("put batch", entries[0].Key, err)
		}
		return nil
	}
	for _, e := range entries {
		if err := s.put(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) get(key string) (string, bool, error) {
	v, ok, err := s.store.Get(key)
	if err != nil {
		return "", false, s.storeError("get", key, err)
	}
	return v, ok, nil
}

func (s *Settings) put(key, value string) error {
	if err := s.store.Put(key, value); err != nil {
		return s.storeError("put", key, err)
	}
	return nil
}

func (s *Settings) delete(key string) error {
	if err := s.store.Delete(key); err != nil {
		return s.storeError("delete", key, err)
	}
	return nil
}

func (s *Settings) storeError(op, key string, err error) error {
	s.log.WithFields(logrus.Fields{
		"component": "settings",
		"operation": op,
		"key":       key,
	}).WithError(err).Error("settings store failure")
	return fmt.Errorf("%w: %w", ErrStore, goerrors.Wrap(err, ErrCodeStore, "store "+op+" failed"))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %w", ErrInvalidSetting, goerrors.New(ErrCodeInvalidSetting, msg))
}

func notConfigured(name string) error {
	return fmt.Errorf("%w: %w", ErrNotConfigured, goerrors.New(ErrCodeNotConfigured, name+" is not set"))
}

// main.go: crypter command line tool.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agilira/crypter"
	"github.com/agilira/crypter/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		err = runEncrypt(ctx, cfg, os.Args[2:])
	case "decrypt":
		err = runDecrypt(ctx, cfg, os.Args[2:])
	case "passcode":
		err = runPasscode(ctx, cfg, os.Args[2:])
	case "key":
		err = runKey(ctx, cfg, os.Args[2:])
	case "timeout":
		err = runTimeout(ctx, cfg, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", userMessage(err))
		os.Exit(1)
	}
}

func runEncrypt(ctx context.Context, cfg *config, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := readText(ctx, fs.Args())
	if err != nil {
		return err
	}
	password, err := readPassword(ctx, cfg, "Password: ")
	if err != nil {
		return err
	}

	envelope, err := crypter.Encrypt(password, text)
	if err != nil {
		return err
	}
	fmt.Println(envelope)
	return nil
}

func runDecrypt(ctx context.Context, cfg *config, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	envelope, err := readText(ctx, fs.Args())
	if err != nil {
		return err
	}
	password, err := readPassword(ctx, cfg, "Password: ")
	if err != nil {
		return err
	}

	plaintext, err := crypter.Decrypt(password, envelope)
	if err != nil {
		return err
	}
	fmt.Println(plaintext)
	return nil
}

func runPasscode(ctx context.Context, cfg *config, args []string) error {
	fs := flag.NewFlagSet("passcode", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "Settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: crypter passcode [-db path] <set|change|verify|reset>")
	}

	return withSettings(*dbPath, func(s *settings.Settings) error {
		switch fs.Arg(0) {
		case "set":
			passcode, err := readSecret(ctx, cfg, "New passcode: ")
			if err != nil {
				return err
			}
			return s.SetPasscode(passcode)
		case "change":
			oldPasscode, err := readSecret(ctx, cfg, "Current passcode: ")
			if err != nil {
				return err
			}
			newPasscode, err := readSecret(ctx, cfg, "New passcode: ")
			if err != nil {
				return err
			}
			return s.ChangePasscode(oldPasscode, newPasscode)
		case "verify":
			passcode, err := readSecret(ctx, cfg, "Passcode: ")
			if err != nil {
				return err
			}
			ok, err := s.VerifyPasscode(passcode)
			if err != nil {
				return err
			}
			if !ok {
				return settings.ErrWrongPasscode
			}
			fmt.Println("Passcode OK")
			return nil
		case "reset":
			passcode, err := readSecret(ctx, cfg, "Passcode: ")
			if err != nil {
				return err
			}
			if err := s.Reset(passcode); err != nil {
				return err
			}
			fmt.Println("All settings removed")
			return nil
		default:
			return fmt.Errorf("unknown passcode action: %s", fs.Arg(0))
		}
	})
}

func runKey(ctx context.Context, cfg *config, args []string) error {
	fs := flag.NewFlagSet("key", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "Settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: crypter key [-db path] <set|get>")
	}

	return withSettings(*dbPath, func(s *settings.Settings) error {
		passcode, err := readSecret(ctx, cfg, "Passcode: ")
		if err != nil {
			return err
		}
		switch fs.Arg(0) {
		case "set":
			if fs.NArg() != 1 {
				return fmt.Errorf("usage: crypter key set (the key is prompted for, never passed as an argument)")
			}
			key, err := readKey(ctx, "Encryption key: ")
			if err != nil {
				return err
			}
			return s.SetEncryptionKey(passcode, key)
		case "get":
			key, err := s.EncryptionKey(passcode)
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		default:
			return fmt.Errorf("unknown key action: %s", fs.Arg(0))
		}
	})
}

func runTimeout(_ context.Context, cfg *config, args []string) error {
	fs := flag.NewFlagSet("timeout", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "Settings database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSettings(*dbPath, func(s *settings.Settings) error {
		switch {
		case fs.NArg() == 2 && fs.Arg(0) == "set":
			return s.SetLockTimeout(fs.Arg(1))
		case fs.NArg() == 1 && fs.Arg(0) == "get":
			timeout, err := s.LockTimeout()
			if err != nil {
				return err
			}
			fmt.Println(int(timeout.Seconds()))
			return nil
		default:
			return fmt.Errorf("usage: crypter timeout [-db path] <set <seconds>|get>")
		}
	})
}

func withSettings(path string, fn func(*settings.Settings) error) error {
	store, err := settings.OpenBoltStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := settings.New(store, nil)
	if err != nil {
		return err
	}
	return fn(s)
}

func printUsage() {
	fmt.Println("crypter - password-based encryption of short secrets")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  crypter <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt [text]                       Encrypt text (or stdin) into a v1 envelope")
	fmt.Println("  decrypt [envelope]                   Decrypt an envelope (or stdin)")
	fmt.Println("  passcode <set|change|verify|reset>   Manage the stored passcode")
	fmt.Println("  key <set|get>                        Manage the stored encryption key (prompted, never an argument)")
	fmt.Println("  timeout <set <seconds>|get>          Manage the lock timeout")
	fmt.Println()
	fmt.Println("The password is read from CRYPTER_PASSWORD or prompted without echo.")
	fmt.Println("Settings commands accept -db <path> (default $CRYPTER_DB or crypter.db).")
}

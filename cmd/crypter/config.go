// config.go: Environment configuration for the crypter command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// config is read from the environment once at startup.
type config struct {
	// Password is removed from the process environment after it is read.
	Password string `env:"CRYPTER_PASSWORD,unset"`
	DBPath   string `env:"CRYPTER_DB" envDefault:"crypter.db"`
	LogLevel string `env:"CRYPTER_LOG_LEVEL" envDefault:"warn"`
}

func loadConfig() (*config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid CRYPTER_LOG_LEVEL: %w", err)
	}
	logrus.SetLevel(level)

	return &cfg, nil
}

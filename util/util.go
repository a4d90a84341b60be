/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package util has logging used by the other packages.
package util

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf writes a debug message to the
// current logger.
var Logging = false

var (
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	mu     sync.RWMutex
)

// GetLogger returns the current logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &logger
}

// SetLogger replaces the current logger.
func SetLogger(l *zerolog.Logger) {
	mu.Lock()
	logger = *l
	mu.Unlock()
}

// SetLevel sets the minimum level ("debug", "info", "warn", ...) of
// the current logger.
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = logger.Level(l)
	mu.Unlock()
	return nil
}

// Logf is a silly utility function that logs at debug level if
// Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	GetLogger().Debug().Msgf(format, args...)
}

// Warnf logs a warning regardless of Logging.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn().Msgf(format, args...)
}

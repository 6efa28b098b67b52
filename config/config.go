// Package config loads and validates the client's JSON configuration
// document (spec.md §6): connection target, logging knobs, the reader
// configuration to push on connect, and the ROSpec to install.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/dtgillespie/llrp-client/llrp"
)

// Config is the root configuration document, matching spec.md §6's JSON
// shape field-for-field via json tags.
type Config struct {
	Host            string `json:"host" validate:"required"`
	LogLevel        string `json:"log_level" validate:"omitempty,oneof=off error warn info debug trace"`
	LogResponseAck  bool   `json:"log_response_ack"`
	ResponseTimeoutMS uint `json:"response_timeout" validate:"required"`

	ReaderConfig llrp.ReaderConfig `json:"reader_config"`
	ROSpec       llrp.ROSpecConfig `json:"rospec"`
}

// ResponseTimeout returns ResponseTimeoutMS as a time.Duration.
func (c Config) ResponseTimeout() time.Duration {
	return time.Duration(c.ResponseTimeoutMS) * time.Millisecond
}

// IsLogOff reports whether log_level is "off". logrus has no built-in
// "off" level, so callers handle this by routing the logger's output to
// io.Discard instead of mapping it to a Level.
func (c Config) IsLogOff() bool {
	return c.LogLevel == "off"
}

// LogrusLevel maps LogLevel to a logrus.Level. Callers should check
// IsLogOff first; this returns InfoLevel for "off" and for an empty value.
func (c Config) LogrusLevel() logrus.Level {
	switch c.LogLevel {
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	case "trace":
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

var validate = validator.New()

// Load reads and validates the configuration document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	return &cfg, nil
}

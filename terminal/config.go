package terminal

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds the terminal configuration, as read from a TOML file.
type Config struct {
	// Line is the serial device
	Line string `toml:"line"`

	// Baud is rounded up to the next standard rate
	Baud int `toml:"baud"`

	// Escape is the command escape: "^A", "0x01" or "1"
	Escape string `toml:"escape"`

	// Timestamp starts the session with line output timestamped
	Timestamp bool `toml:"timestamp"`

	// History is the file prompted lines are appended to
	History string `toml:"history"`

	// LogFile enables protocol logging when set
	LogFile string `toml:"log_file"`

	// Shell runs remote commands
	Shell string `toml:"shell"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Line:    "/dev/ttyS0",
		Baud:    115200,
		Escape:  "^A",
		History: ".dumb",
		Shell:   "/bin/sh",
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, NewError(ErrConfig, "load "+path, err)
	}
	if _, err := config.EscapeChar(); err != nil {
		return nil, err
	}
	return config, nil
}

// EscapeChar returns the configured escape byte.
func (c *Config) EscapeChar() (byte, error) {
	return ParseEscape(c.Escape)
}

// ParseEscape parses an escape character given as caret notation ("^A") or
// as a number in any base strconv accepts ("1", "0x01", "001").
func ParseEscape(s string) (byte, error) {
	if len(s) == 2 && s[0] == '^' {
		return s[1] & 0x1f, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, NewError(ErrConfig, fmt.Sprintf("escape %q", s), err)
	}
	return byte(v), nil
}

package main

// Level is the digital level driven onto a pin.  Low switches the LED off.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Mode enumerates the patterns selectable from the command line.
type Mode string

const (
	ModeBlinks Mode = "blinks"
	ModeLight  Mode = "light"
)

// parseMode reports the Mode named by token.  Anything other than the two
// recognised values yields false.
func parseMode(token string) (Mode, bool) {
	switch Mode(token) {
	case ModeBlinks, ModeLight:
		return Mode(token), true
	}
	return "", false
}

// LoggingConfig selects the slog handler and level.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // text or json
}

// Config is the top-level structure read from ledblink.toml.  All fields are
// optional in the file; missing keys keep their defaults.
type Config struct {
	Backend  string        `toml:"backend"`   // pin controller: periph, rpio, cdev or sim
	Pin      int           `toml:"pin"`       // GPIO pin number (BCM numbering)
	Count    int           `toml:"count"`     // iterations per pattern
	Interval string        `toml:"interval"`  // hold time per step, time.ParseDuration syntax
	EventLog string        `toml:"event_log"` // journal file, empty disables it
	Logging  LoggingConfig `toml:"logging"`
}

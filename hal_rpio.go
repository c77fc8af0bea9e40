//go:build linux && (arm || arm64) && !disablegpio

package main

import (
	"fmt"
	"log/slog"

	"github.com/stianeikeland/go-rpio/v4"
)

func init() {
	backends["rpio"] = func(logger *slog.Logger) (PinController, error) {
		return &rpioController{logger: logger, pins: make(map[int]rpio.Pin)}, nil
	}
}

// rpioController maps /dev/gpiomem on first SetupOutput and unmaps it on
// Release.  Requires a Raspberry Pi.
type rpioController struct {
	logger *slog.Logger
	open   bool
	pins   map[int]rpio.Pin
}

func (c *rpioController) SetupOutput(pin int) error {
	if !c.open {
		if err := rpio.Open(); err != nil {
			return fmt.Errorf("rpio: open: %w", err)
		}
		c.open = true
	}
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	c.pins[pin] = p
	c.logger.Debug("pin set up as output", "pin", pin, "backend", "rpio")
	return nil
}

func (c *rpioController) Write(pin int, level Level) error {
	p, ok := c.pins[pin]
	if !ok {
		return fmt.Errorf("rpio: GPIO%d: %w", pin, ErrPinNotSetUp)
	}
	if level == High {
		p.High()
	} else {
		p.Low()
	}
	c.logger.Debug("pin written", "pin", pin, "level", level)
	return nil
}

func (c *rpioController) Release() error {
	for pin, p := range c.pins {
		p.Input()
		delete(c.pins, pin)
	}
	if !c.open {
		return nil
	}
	c.open = false
	c.logger.Debug("pins released", "backend", "rpio")
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("rpio: close: %w", err)
	}
	return nil
}

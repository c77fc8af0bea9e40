//go:build linux && (arm || arm64) && !disablegpio

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/warthog618/go-gpiocdev"
)

// cdevChip is the character device carrying the header GPIOs on a Pi.
const cdevChip = "gpiochip0"

func init() {
	backends["cdev"] = func(logger *slog.Logger) (PinController, error) {
		return &cdevController{logger: logger, lines: make(map[int]*gpiocdev.Line)}, nil
	}
}

// cdevController requests one line per pin from the GPIO character device.
// On a Pi the line offset on gpiochip0 equals the BCM number.
type cdevController struct {
	logger *slog.Logger
	lines  map[int]*gpiocdev.Line
}

func (c *cdevController) SetupOutput(pin int) error {
	if _, ok := c.lines[pin]; ok {
		return nil
	}
	l, err := gpiocdev.RequestLine(cdevChip, pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("ledblink"))
	if err != nil {
		return fmt.Errorf("cdev: %s:%d: %w", cdevChip, pin, err)
	}
	c.lines[pin] = l
	c.logger.Debug("pin set up as output", "pin", pin, "backend", "cdev")
	return nil
}

func (c *cdevController) Write(pin int, level Level) error {
	l, ok := c.lines[pin]
	if !ok {
		return fmt.Errorf("cdev: %s:%d: %w", cdevChip, pin, ErrPinNotSetUp)
	}
	v := 0
	if level == High {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("cdev: %s:%d: %w", cdevChip, pin, err)
	}
	c.logger.Debug("pin written", "pin", pin, "level", level)
	return nil
}

// Release reverts each line to input before closing it.
func (c *cdevController) Release() error {
	var errs []error
	for pin, l := range c.lines {
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("cdev: %s:%d: %w", cdevChip, pin, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cdev: %s:%d: %w", cdevChip, pin, err))
		}
		delete(c.lines, pin)
	}
	c.logger.Debug("pins released", "backend", "cdev")
	return errors.Join(errs...)
}

//go:build linux && (arm || arm64) && !disablegpio

// This file provides the periph.io implementation of the HAL.  When building
// for other platforms or with the "disablegpio" tag only the simulated
// controller is available.

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func init() {
	backends["periph"] = newPeriphController
}

// periphController drives pins through the periph.io host drivers.  Pins are
// looked up by their BCM name, e.g. "GPIO18".
type periphController struct {
	logger *slog.Logger
	pins   map[int]gpio.PinIO
}

// newPeriphController initialises periph host state.  host.Init can safely be
// called multiple times; subsequent calls are no-ops.
func newPeriphController(logger *slog.Logger) (PinController, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}
	return &periphController{logger: logger, pins: make(map[int]gpio.PinIO)}, nil
}

func (c *periphController) SetupOutput(pin int) error {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return fmt.Errorf("periph: no such pin GPIO%d", pin)
	}
	if err := p.Out(gpio.Low); err != nil {
		return fmt.Errorf("periph: GPIO%d: %w", pin, err)
	}
	c.pins[pin] = p
	c.logger.Debug("pin set up as output", "pin", pin, "backend", "periph")
	return nil
}

func (c *periphController) Write(pin int, level Level) error {
	p, ok := c.pins[pin]
	if !ok {
		return fmt.Errorf("periph: GPIO%d: %w", pin, ErrPinNotSetUp)
	}
	if err := p.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("periph: GPIO%d: %w", pin, err)
	}
	c.logger.Debug("pin written", "pin", pin, "level", level)
	return nil
}

// Release switches every configured pin back to input, like RPi.GPIO's
// cleanup, then halts it.
func (c *periphController) Release() error {
	var errs []error
	for pin, p := range c.pins {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			errs = append(errs, fmt.Errorf("periph: GPIO%d: %w", pin, err))
		}
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("periph: GPIO%d: %w", pin, err))
		}
		delete(c.pins, pin)
	}
	c.logger.Debug("pins released", "backend", "periph")
	return errors.Join(errs...)
}

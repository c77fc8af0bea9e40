package main

// This file defines the hardware abstraction layer (HAL) for the LED pin.
// Routines never touch a GPIO library directly: they receive a PinController
// so that tests and desktop builds can substitute the simulated one below.
// Hardware backends live in hal_*.go files guarded by build tags and register
// themselves in backends from init.

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	// ErrBackendUnavailable is returned when the configured backend is known
	// but was not compiled into this binary.
	ErrBackendUnavailable = errors.New("backend not available in this build")

	// ErrPinNotSetUp is returned by Write for a pin that SetupOutput has not
	// configured since the last Release.
	ErrPinNotSetUp = errors.New("pin not set up as output")
)

// PinController drives GPIO pins addressed by BCM number.
type PinController interface {
	// SetupOutput configures pin as an output.
	SetupOutput(pin int) error
	// Write drives level onto a pin previously set up as output.
	Write(pin int, level Level) error
	// Release returns every pin set up by this controller to input and frees
	// the underlying resources.  The controller may be set up again later.
	Release() error
}

type backendFactory func(logger *slog.Logger) (PinController, error)

// knownBackends lists every backend name, compiled in or not.
var knownBackends = []string{"periph", "rpio", "cdev", "sim"}

// backends holds the factories compiled into this binary.
var backends = map[string]backendFactory{
	"sim": func(logger *slog.Logger) (PinController, error) {
		return newSimController(logger), nil
	},
}

func knownBackend(name string) bool {
	for _, b := range knownBackends {
		if b == name {
			return true
		}
	}
	return false
}

// availableBackends returns the compiled-in backend names, sorted.
func availableBackends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// openController instantiates the named backend.
func openController(name string, logger *slog.Logger) (PinController, error) {
	factory, ok := backends[name]
	if !ok {
		if knownBackend(name) {
			return nil, fmt.Errorf("%s: %w (available: %v)", name, ErrBackendUnavailable, availableBackends())
		}
		return nil, fmt.Errorf("unknown backend %q", name)
	}
	return factory(logger)
}

// simController keeps pin levels in memory and logs every operation.  It lets
// the tool run on a machine without GPIO hardware.
type simController struct {
	logger *slog.Logger
	levels map[int]Level
}

func newSimController(logger *slog.Logger) *simController {
	return &simController{logger: logger, levels: make(map[int]Level)}
}

func (s *simController) SetupOutput(pin int) error {
	s.levels[pin] = Low
	s.logger.Debug("sim: pin set up as output", "pin", pin)
	return nil
}

func (s *simController) Write(pin int, level Level) error {
	if _, ok := s.levels[pin]; !ok {
		return fmt.Errorf("sim: GPIO%d: %w", pin, ErrPinNotSetUp)
	}
	s.levels[pin] = level
	s.logger.Debug("sim: pin written", "pin", pin, "level", level)
	return nil
}

func (s *simController) Release() error {
	for pin := range s.levels {
		delete(s.levels, pin)
	}
	s.logger.Debug("sim: pins released")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Clock provides the holds between level changes.
type Clock interface {
	// Sleep blocks for d or until ctx is done, in which case it returns
	// ctx.Err().
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner drives the LED patterns on a single pin.  Each routine acquires the
// pin on entry and releases it on every exit path, so a Runner can be reused.
type Runner struct {
	ctrl     PinController
	clock    Clock
	pin      int
	count    int
	interval time.Duration
	out      io.Writer // status messages
	logger   *slog.Logger
	journal  *EventLogger
}

// NewRunner builds a Runner for pin.  A nil journal disables event logging.
func NewRunner(ctrl PinController, clock Clock, pin, count int, interval time.Duration, out io.Writer, logger *slog.Logger, journal *EventLogger) *Runner {
	return &Runner{
		ctrl:     ctrl,
		clock:    clock,
		pin:      pin,
		count:    count,
		interval: interval,
		out:      out,
		logger:   logger,
		journal:  journal,
	}
}

// Blinks sets the pin high then low for one interval each, count times.
func (r *Runner) Blinks(ctx context.Context) error {
	return r.withPin(ctx, "blinking", func(ctx context.Context) error {
		for i := 0; i < r.count; i++ {
			if err := r.hold(ctx, High); err != nil {
				return err
			}
			if err := r.hold(ctx, Low); err != nil {
				return err
			}
		}
		return nil
	})
}

// Light keeps the pin high for count intervals.  The level is rewritten each
// interval and never dropped mid-loop.
func (r *Runner) Light(ctx context.Context) error {
	return r.withPin(ctx, "steady light", func(ctx context.Context) error {
		for i := 0; i < r.count; i++ {
			if err := r.hold(ctx, High); err != nil {
				return err
			}
		}
		return nil
	})
}

// Off forces the pin low and releases it.  It reports a single "light off"
// line rather than a start and finish pair.
func (r *Runner) Off(ctx context.Context) error {
	return r.withPin(ctx, "light off", nil)
}

func (r *Runner) hold(ctx context.Context, level Level) error {
	if err := r.ctrl.Write(r.pin, level); err != nil {
		return err
	}
	return r.clock.Sleep(ctx, r.interval)
}

// withPin sets the pin up as a low output, runs pattern and then forces the
// pin low and releases the controller whatever pattern returned.  Nothing is
// released if setup itself fails.  A nil pattern only switches the pin off.
func (r *Runner) withPin(ctx context.Context, label string, pattern func(context.Context) error) (err error) {
	if err := r.ctrl.SetupOutput(r.pin); err != nil {
		r.journal.Log("%s failed: setup GPIO%d: %v", label, r.pin, err)
		return fmt.Errorf("setup GPIO%d: %w", r.pin, err)
	}
	defer func() {
		lowErr := r.ctrl.Write(r.pin, Low)
		if lowErr != nil {
			lowErr = fmt.Errorf("force GPIO%d low: %w", r.pin, lowErr)
		}
		relErr := r.ctrl.Release()
		if relErr != nil {
			relErr = fmt.Errorf("release GPIO%d: %w", r.pin, relErr)
		}
		err = errors.Join(err, lowErr, relErr)
		if err != nil {
			r.logger.Error("pattern failed", "pattern", label, "pin", r.pin, "error", err)
			r.journal.Log("%s failed on GPIO%d: %v", label, r.pin, err)
			return
		}
		if pattern == nil {
			fmt.Fprintln(r.out, label)
			r.journal.Log("%s on GPIO%d", label, r.pin)
			return
		}
		fmt.Fprintf(r.out, "%s finished\n", label)
		r.journal.Log("%s finished on GPIO%d", label, r.pin)
	}()

	if err := r.ctrl.Write(r.pin, Low); err != nil {
		return err
	}
	if pattern == nil {
		return nil
	}
	fmt.Fprintf(r.out, "%s started\n", label)
	r.logger.Info("pattern started", "pattern", label, "pin", r.pin, "count", r.count, "interval", r.interval)
	r.journal.Log("%s started on GPIO%d", label, r.pin)
	return pattern(ctx)
}

// dispatch runs the routine named by token.  Unrecognised tokens are ignored
// without touching the pin.
func dispatch(ctx context.Context, r *Runner, token string) error {
	mode, ok := parseMode(token)
	if !ok {
		r.logger.Debug("ignoring unrecognised mode", "mode", token)
		return nil
	}
	switch mode {
	case ModeBlinks:
		return r.Blinks(ctx)
	case ModeLight:
		return r.Light(ctx)
	}
	return nil
}

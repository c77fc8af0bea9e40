package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

var errBoom = errors.New("boom")

// op is one call seen by the fake controller or the fake clock.
type op struct {
	kind  string // setup, write, sleep or release
	pin   int
	level Level
	d     time.Duration
}

// recorder collects controller and clock calls in one ordered log.
type recorder struct {
	ops     []op
	elapsed time.Duration

	setupErr    error
	failWriteAt int // 1-based index of the write that fails, 0 for none
	writes      int
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

// fakeController records calls and, like real hardware, refuses writes to
// pins that are not set up.
type fakeController struct {
	rec *recorder
	set map[int]bool
}

func newFakeController(rec *recorder) *fakeController {
	return &fakeController{rec: rec, set: make(map[int]bool)}
}

func (f *fakeController) SetupOutput(pin int) error {
	if f.rec.setupErr != nil {
		return f.rec.setupErr
	}
	f.set[pin] = true
	f.rec.ops = append(f.rec.ops, op{kind: "setup", pin: pin})
	return nil
}

func (f *fakeController) Write(pin int, level Level) error {
	f.rec.writes++
	if f.rec.failWriteAt == f.rec.writes {
		return errBoom
	}
	if !f.set[pin] {
		return ErrPinNotSetUp
	}
	f.rec.ops = append(f.rec.ops, op{kind: "write", pin: pin, level: level})
	return nil
}

func (f *fakeController) Release() error {
	for pin := range f.set {
		delete(f.set, pin)
	}
	f.rec.ops = append(f.rec.ops, op{kind: "release"})
	return nil
}

// fakeClock advances simulated time instead of sleeping.
type fakeClock struct {
	rec *recorder
}

func (c fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.rec.ops = append(c.rec.ops, op{kind: "sleep", d: d})
	c.rec.elapsed += d
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

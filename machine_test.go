package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMachine_Fire(t *testing.T) {
	var calls []string
	action := func(name string) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return nil
		}
	}

	m := NewMachine(StateOff, []Transition{
		{Event: EventLight, From: []State{StateOff}, To: StateSteady, Action: action("light")},
		{Event: EventOff, From: []State{StateSteady}, To: StateOff, Action: action("off")},
	}, discardLogger(), nil)

	ctx := context.Background()
	if s, err := m.Fire(ctx, EventLight); err != nil || s != StateSteady {
		t.Fatalf("Fire(light) = %s, %v; want steady", s, err)
	}
	// No transition for light while steady: state and actions unchanged.
	if s, err := m.Fire(ctx, EventLight); err != nil || s != StateSteady {
		t.Fatalf("Fire(light) from steady = %s, %v; want steady", s, err)
	}
	if s, err := m.Fire(ctx, EventOff); err != nil || s != StateOff {
		t.Fatalf("Fire(off) = %s, %v; want off", s, err)
	}

	if len(calls) != 2 || calls[0] != "light" || calls[1] != "off" {
		t.Errorf("actions run = %v, want [light off]", calls)
	}
}

func TestMachine_FailedActionKeepsState(t *testing.T) {
	m := NewMachine(StateOff, []Transition{
		{Event: EventBlinks, From: []State{StateOff}, To: StateBlinking, Action: func(context.Context) error { return errBoom }},
	}, discardLogger(), nil)

	s, err := m.Fire(context.Background(), EventBlinks)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Fire() error = %v, want %v", err, errBoom)
	}
	if s != StateOff || m.State() != StateOff {
		t.Errorf("state = %s, want off", m.State())
	}
}

func TestLEDMachine(t *testing.T) {
	rec := &recorder{}
	var out bytes.Buffer
	r := newTestRunner(rec, &out)
	m := newLEDMachine(r, discardLogger(), nil)
	ctx := context.Background()

	steps := []struct {
		event   Event
		want    State
		elapsed time.Duration
	}{
		{event: EventBlinks, want: StateBlinking, elapsed: 10 * time.Second},
		{event: EventBlinks, want: StateBlinking, elapsed: 20 * time.Second},
		{event: EventLight, want: StateSteady, elapsed: 25 * time.Second},
		{event: EventOff, want: StateOff, elapsed: 25 * time.Second},
		{event: EventOff, want: StateOff, elapsed: 25 * time.Second},
	}
	for _, step := range steps {
		s, err := m.Fire(ctx, step.event)
		if err != nil {
			t.Fatalf("Fire(%s) error: %v", step.event, err)
		}
		if s != step.want {
			t.Errorf("Fire(%s) = %s, want %s", step.event, s, step.want)
		}
		if rec.elapsed != step.elapsed {
			t.Errorf("after %s elapsed = %s, want %s", step.event, rec.elapsed, step.elapsed)
		}
	}
	if got := rec.count("release"); got != len(steps) {
		t.Errorf("release calls = %d, want %d", got, len(steps))
	}
}

func TestParseEvent(t *testing.T) {
	for _, token := range []string{"off", "blinks", "light"} {
		if ev, err := parseEvent(token); err != nil || string(ev) != token {
			t.Errorf("parseEvent(%q) = %q, %v", token, ev, err)
		}
	}
	if _, err := parseEvent("strobe"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("parseEvent(strobe) error = %v, want ErrUnknownEvent", err)
	}
}

func TestMachine_JournalsTransitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	journal := NewEventLogger(path)
	noop := func(context.Context) error { return nil }
	m := NewMachine(StateOff, []Transition{
		{Event: EventBlinks, From: []State{StateOff, StateBlinking}, To: StateBlinking, Action: noop},
	}, discardLogger(), journal)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := m.Fire(ctx, EventBlinks); err != nil {
			t.Fatalf("Fire(blinks) #%d error: %v", i+1, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("journal has %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.HasSuffix(lines[0], "state off -> blinking") || !strings.HasSuffix(lines[1], "state blinking -> blinking") {
		t.Errorf("journal =\n%s", data)
	}
}

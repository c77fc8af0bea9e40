package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/looplab/fsm"
)

// State is the LED state tracked by Machine.
type State string

// Event triggers a transition.
type Event string

const (
	StateOff      State = "off"
	StateBlinking State = "blinking"
	StateSteady   State = "steady"

	EventOff    Event = "off"
	EventBlinks Event = Event(ModeBlinks)
	EventLight  Event = Event(ModeLight)
)

// ErrUnknownEvent is returned when parsing an event name that no transition
// uses.
var ErrUnknownEvent = errors.New("unknown event")

func parseEvent(token string) (Event, error) {
	switch Event(token) {
	case EventOff, EventBlinks, EventLight:
		return Event(token), nil
	}
	return "", fmt.Errorf("%w %q (want off, blinks or light)", ErrUnknownEvent, token)
}

// Transition moves the machine from any of From to To when Event fires.
// Action runs first; if it fails the machine stays where it was.
type Transition struct {
	Event  Event
	From   []State
	To     State
	Action func(context.Context) error
}

// Machine is a finite-state machine over looplab/fsm.  Each event has one
// action, run from its before_<event> callback.
type Machine struct {
	fsm     *fsm.FSM
	logger  *slog.Logger
	journal *EventLogger
}

func NewMachine(initial State, transitions []Transition, logger *slog.Logger, journal *EventLogger) *Machine {
	m := &Machine{logger: logger, journal: journal}

	events := make(fsm.Events, 0, len(transitions))
	callbacks := fsm.Callbacks{
		"after_event": func(_ context.Context, e *fsm.Event) {
			m.logger.Info("state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
			m.journal.Log("state %s -> %s", e.Src, e.Dst)
		},
	}
	for _, t := range transitions {
		src := make([]string, len(t.From))
		for i, s := range t.From {
			src[i] = string(s)
		}
		events = append(events, fsm.EventDesc{Name: string(t.Event), Src: src, Dst: string(t.To)})
		if t.Action == nil {
			continue
		}
		action := t.Action
		callbacks["before_"+string(t.Event)] = func(ctx context.Context, e *fsm.Event) {
			if err := action(ctx); err != nil {
				e.Cancel(err)
			}
		}
	}

	m.fsm = fsm.NewFSM(string(initial), events, callbacks)
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return State(m.fsm.Current())
}

// Fire runs the action for event and moves to its target state.  Events
// without a transition from the current state leave it untouched.  If the
// action fails the state is unchanged and the error is returned.
func (m *Machine) Fire(ctx context.Context, event Event) (State, error) {
	from := m.State()
	err := m.fsm.Event(ctx, string(event))

	var (
		noTransition fsm.NoTransitionError
		invalid      fsm.InvalidEventError
		unknown      fsm.UnknownEventError
		canceled     fsm.CanceledError
	)
	switch {
	case err == nil, errors.As(err, &noTransition):
	case errors.As(err, &invalid), errors.As(err, &unknown):
		m.logger.Debug("no transition", "state", from, "event", event)
	case errors.As(err, &canceled) && canceled.Err != nil:
		return m.State(), fmt.Errorf("%s on %s: %w", from, event, canceled.Err)
	default:
		return m.State(), fmt.Errorf("%s on %s: %w", from, event, err)
	}
	return m.State(), nil
}

// newLEDMachine wires the three LED states to r.  Every state accepts every
// event.
func newLEDMachine(r *Runner, logger *slog.Logger, journal *EventLogger) *Machine {
	all := []State{StateOff, StateBlinking, StateSteady}
	return NewMachine(StateOff, []Transition{
		{Event: EventOff, From: all, To: StateOff, Action: r.Off},
		{Event: EventBlinks, From: all, To: StateBlinking, Action: r.Blinks},
		{Event: EventLight, From: all, To: StateSteady, Action: r.Light},
	}, logger, journal)
}

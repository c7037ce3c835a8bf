// AngelaMos | 2026
// state.go

package esim

import (
	"errors"
	"fmt"

	"github.com/carterperez-dev/esimphony/internal/session"
)

var ErrInvalidTransition = errors.New("invalid activation transition")

type State string

const (
	StateNotStarted       State = "not-started"
	StateActivating       State = "activating"
	StateActive           State = "active"
	StateActivationFailed State = "activation-failed"
	StateManualSetup      State = "manual-setup"
)

type Event string

const (
	EventStart   Event = "start"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventManual  Event = "manual"
)

var transitions = map[State]map[Event]State{
	StateNotStarted: {
		EventStart:  StateActivating,
		EventManual: StateManualSetup,
	},
	StateActivating: {
		EventSucceed: StateActive,
		EventFail:    StateActivationFailed,
		EventManual:  StateManualSetup,
	},
	StateActivationFailed: {
		EventManual: StateManualSetup,
	},
}

// Next returns the state reached from s on ev. Active and ManualSetup
// are terminal.
func (s State) Next(ev Event) (State, error) {
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
}

func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// StateOf derives the activation state stored in a record.
func StateOf(u *session.User) State {
	if u.Status() == session.ESIMActive {
		return StateActive
	}
	return StateNotStarted
}

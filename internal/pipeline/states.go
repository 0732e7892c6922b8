package pipeline

import (
	"fmt"
	"log/slog"
	"slices"
)

// State identifies a stage of a stamping run.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateClassifying      State = "classifying"
	StateExtracting       State = "extracting"
	StateStampCheck       State = "stamp_check"
	StateBuildingPayloads State = "building_payloads"
	StateSubmitting       State = "submitting"
	StateCollecting       State = "collecting"
	StateFormatting       State = "formatting"
	StateFilling          State = "filling"
	StateCombining        State = "combining"
	StateDone             State = "done"
	StateNotApplicable    State = "not_applicable"
	StateError            State = "error"
)

// allowedTransitions encodes the run state machine. Submitting through
// Filling loop once per payload; Done and NotApplicable are terminal; Error
// transitions back to Idle only when the operator retries.
var allowedTransitions = map[State][]State{
	StateIdle:             {StateValidating},
	StateValidating:       {StateClassifying, StateError},
	StateClassifying:      {StateExtracting, StateError},
	StateExtracting:       {StateStampCheck, StateError},
	StateStampCheck:       {StateBuildingPayloads, StateNotApplicable},
	StateBuildingPayloads: {StateSubmitting},
	StateSubmitting:       {StateCollecting},
	StateCollecting:       {StateFormatting},
	StateFormatting:       {StateFilling},
	StateFilling:          {StateSubmitting, StateCombining},
	StateCombining:        {StateDone},
	StateError:            {StateIdle},
}

// machine tracks the current run state and rejects transitions outside the
// allowed graph.
type machine struct {
	state  State
	logger *slog.Logger
}

func newMachine(logger *slog.Logger) *machine {
	return &machine{state: StateIdle, logger: logger}
}

func (m *machine) to(next State) error {
	if !slices.Contains(allowedTransitions[m.state], next) {
		return fmt.Errorf("invalid state transition: %s -> %s", m.state, next)
	}
	m.logger.Debug("state transition", "from", m.state, "to", next)
	m.state = next
	return nil
}

package core

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

// Phase is where a session's turn currently stands
type Phase int

const (
	PhaseDone Phase = iota
	PhaseAwaitingModel
	PhaseAwaitingTool
	PhaseSuspended
)

func (p Phase) String() string {
	switch p {
	case PhaseDone:
		return "DONE"
	case PhaseAwaitingModel:
		return "AWAITING_MODEL"
	case PhaseAwaitingTool:
		return "AWAITING_TOOL"
	case PhaseSuspended:
		return "SUSPENDED"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var transitions = map[Phase][]Phase{
	PhaseDone:          {PhaseAwaitingModel},
	PhaseAwaitingModel: {PhaseAwaitingTool, PhaseDone},
	PhaseAwaitingTool:  {PhaseSuspended, PhaseAwaitingModel},
	PhaseSuspended:     {PhaseAwaitingModel},
}

// CanTransition reports whether the turn may move from p to next
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

func checkTransition(from, to Phase) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

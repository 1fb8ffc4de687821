package core

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/llm"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/router"
	"github.com/Rorical/RoriAgent/internal/tools"
)

var (
	ErrNotSuspended     = errors.New("session is not waiting for a response")
	ErrSessionSuspended = errors.New("session is waiting for a human response")
	ErrSessionBusy      = errors.New("session is already running a turn")
	ErrStepLimit        = errors.New("step limit exceeded")
)

// AgentConfig wires an Agent. Store and MaxSteps are optional.
type AgentConfig struct {
	Client   llm.Client
	Registry *tools.Registry
	Store    *SessionStore
	MaxSteps int
	Logger   zerolog.Logger
}

// Agent drives sessions through the chatbot/tools loop
type Agent struct {
	client     llm.Client
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	router     *router.Router
	store      *SessionStore
	maxSteps   int
	logger     zerolog.Logger
}

// Event is a snapshot taken after one step of a turn
type Event struct {
	SessionID string
	Node      string
	Phase     Phase
	Route     router.Route          // set on chatbot steps
	Message   models.Message        // message appended by the step, if any
	Messages  []models.Message      // full history after the step
	Interrupt *Interrupt            // set when the turn suspended
	Fault     *tools.ExecutionFault // set when a tool failed
}

// Snapshot is the externally visible state of a session
type Snapshot struct {
	SessionID string
	Messages  []models.Message
	Phase     Phase
	Interrupt *Interrupt
	Next      []string
}

func NewAgent(cfg AgentConfig) (*Agent, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Store == nil {
		cfg.Store = NewSessionStore()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = config.DefaultMaxSteps
	}

	return &Agent{
		client:     cfg.Client,
		registry:   cfg.Registry,
		dispatcher: tools.NewDispatcher(cfg.Registry, cfg.Logger),
		router:     router.New(cfg.Registry),
		store:      cfg.Store,
		maxSteps:   cfg.MaxSteps,
		logger:     cfg.Logger,
	}, nil
}

// Submit appends the user's text to the session and runs the turn.
// Steps run lazily as the sequence is consumed; an error is yielded once and ends it.
func (a *Agent) Submit(ctx context.Context, sessionID, text string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		state := a.store.GetOrCreate(sessionID)
		msg := models.UserMessage(text)
		if err := state.startSubmit(msg); err != nil {
			yield(Event{SessionID: sessionID, Phase: state.Phase()}, err)
			return
		}

		a.logger.Info().Str("session", sessionID).Msg("Turn started")
		a.run(ctx, state, Event{Node: NodeStart, Message: msg}, yield)
	}
}

// Resume answers a suspended session's pending tool call with payload and continues the turn.
// The payload is a string or a {"data": ...} document.
func (a *Agent) Resume(ctx context.Context, sessionID string, payload interface{}) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		state, ok := a.store.Get(sessionID)
		if !ok {
			yield(Event{SessionID: sessionID, Phase: PhaseDone}, ErrNotSuspended)
			return
		}
		msg, err := state.startResume(tools.ResumeText(payload))
		if err != nil {
			yield(Event{SessionID: sessionID, Phase: state.Phase()}, err)
			return
		}

		a.logger.Info().Str("session", sessionID).Str("call_id", msg.ToolCallID).Msg("Turn resumed")
		a.run(ctx, state, Event{Node: NodeTools, Message: msg}, yield)
	}
}

// State returns a snapshot of the session
func (a *Agent) State(sessionID string) (Snapshot, bool) {
	state, ok := a.store.Get(sessionID)
	if !ok {
		return Snapshot{SessionID: sessionID, Phase: PhaseDone}, false
	}
	phase := state.Phase()
	return Snapshot{
		SessionID: sessionID,
		Messages:  state.Messages(),
		Phase:     phase,
		Interrupt: state.Pending(),
		Next:      next(phase),
	}, true
}

func (a *Agent) run(ctx context.Context, state *ChatState, first Event, yield func(Event, error) bool) {
	logger := a.logger.With().Str("session", state.ID()).Logger()

	released := false
	finish := func(reason string) {
		if !released {
			released = true
			state.release(reason)
		}
	}
	defer finish("turn cancelled")

	if !a.emit(state, first, yield) {
		return
	}

	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			finish(err.Error())
			yield(a.snapshotEvent(state), err)
			return
		}

		var (
			ev  Event
			err error
		)
		switch state.Phase() {
		case PhaseAwaitingModel:
			if steps >= a.maxSteps {
				err = fmt.Errorf("%w: %d model calls", ErrStepLimit, a.maxSteps)
				break
			}
			steps++
			ev, err = a.callModel(ctx, state)
		case PhaseAwaitingTool:
			ev, err = a.callTool(ctx, state)
		default:
			return
		}

		if err != nil {
			logger.Error().Err(err).Str("phase", state.Phase().String()).Msg("Turn aborted")
			finish(err.Error())
			yield(a.snapshotEvent(state), err)
			return
		}

		terminal := false
		switch state.Phase() {
		case PhaseDone:
			logger.Info().Int("steps", steps).Msg("Turn completed")
			terminal = true
		case PhaseSuspended:
			logger.Info().Str("query", ev.Interrupt.Query()).Msg("Turn suspended")
			terminal = true
		}
		if terminal {
			// the turn is over before the consumer sees the event
			finish("")
			a.emit(state, ev, yield)
			return
		}

		if !a.emit(state, ev, yield) {
			return
		}
	}
}

func (a *Agent) callModel(ctx context.Context, state *ChatState) (Event, error) {
	msg, err := a.client.Invoke(ctx, state.Messages(), a.registry.Specs())
	if err != nil {
		return Event{}, fmt.Errorf("model call failed: %w", err)
	}
	msg.Role = models.RoleAssistant

	// validate before appending so a rejected message leaves the state as it was
	route, err := a.router.Route([]models.Message{msg})
	if err != nil {
		return Event{}, err
	}

	next := PhaseDone
	if route == router.RouteTools {
		next = PhaseAwaitingTool
	}
	if err := state.commit(msg, next); err != nil {
		return Event{}, err
	}
	return Event{Node: NodeChatbot, Route: route, Message: msg}, nil
}

func (a *Agent) callTool(ctx context.Context, state *ChatState) (Event, error) {
	last, ok := state.Last()
	if !ok || !last.HasToolCalls() {
		return Event{}, fmt.Errorf("%w: no tool call to run", ErrInvalidTransition)
	}
	call := last.ToolCalls[0]

	result, err := a.dispatcher.Dispatch(ctx, call)
	if err != nil {
		return Event{}, err
	}

	if result.Suspended() {
		interrupt := &Interrupt{
			CallID:  call.ID,
			Tool:    call.Name,
			Payload: result.Suspension.Payload,
		}
		if err := state.suspend(interrupt); err != nil {
			return Event{}, err
		}
		return Event{Node: NodeTools, Interrupt: interrupt}, nil
	}

	if err := state.commit(result.Message, PhaseAwaitingModel); err != nil {
		return Event{}, err
	}
	return Event{Node: NodeTools, Message: result.Message, Fault: result.Fault}, nil
}

func (a *Agent) emit(state *ChatState, ev Event, yield func(Event, error) bool) bool {
	ev.SessionID = state.ID()
	ev.Phase = state.Phase()
	ev.Messages = state.Messages()
	return yield(ev, nil)
}

func (a *Agent) snapshotEvent(state *ChatState) Event {
	return Event{
		SessionID: state.ID(),
		Phase:     state.Phase(),
		Messages:  state.Messages(),
	}
}

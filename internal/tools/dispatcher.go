package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Rorical/RoriAgent/internal/models"
)

// Dispatch is the outcome of executing one tool call.
// Exactly one of Message or Suspension is meaningful, see Suspended.
type Dispatch struct {
	Call       models.ToolCall
	Message    models.Message  // tool result correlated by call id
	Suspension *Suspension     // set when the tool paused for external input
	Fault      *ExecutionFault // set when the tool failed; Message carries the description
}

// Suspended reports whether the call paused instead of producing a result
func (d Dispatch) Suspended() bool {
	return d.Suspension != nil
}

// Dispatcher executes resolved tool calls against a registry
type Dispatcher struct {
	registry *Registry
	logger   zerolog.Logger
}

func NewDispatcher(registry *Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch runs a single tool call. Unknown tools fail with *UnknownToolError;
// execution faults are folded into the returned tool-result message.
func (d *Dispatcher) Dispatch(ctx context.Context, call models.ToolCall) (Dispatch, error) {
	tool, err := d.registry.Resolve(call.Name)
	if err != nil {
		return Dispatch{}, err
	}

	logger := d.logger.With().Str("tool", call.Name).Str("call_id", call.ID).Logger()
	out := Dispatch{Call: call}

	if err := d.registry.Validate(call.Name, call.Args); err != nil {
		return d.fault(logger, out, err), nil
	}

	result, err := execute(ctx, tool, call.Args)
	if err != nil {
		return d.fault(logger, out, err), nil
	}

	if result.Suspended() {
		logger.Info().Interface("payload", result.Suspend.Payload).Msg("Tool suspended execution")
		out.Suspension = result.Suspend
		return out, nil
	}

	logger.Debug().Msg("Tool completed")
	out.Message = models.ToolMessage(call.ID, call.Name, FormatValue(result.Value))
	return out, nil
}

func (d *Dispatcher) fault(logger zerolog.Logger, out Dispatch, err error) Dispatch {
	logger.Warn().Err(err).Msg("Tool execution failed")
	out.Fault = &ExecutionFault{Tool: out.Call.Name, CallID: out.Call.ID, Err: err}
	out.Message = models.ToolErrorMessage(out.Call.ID, out.Call.Name, err.Error())
	return out
}

// execute converts a panicking tool into an error
func execute(ctx context.Context, tool Tool, args map[string]interface{}) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if args == nil {
		args = map[string]interface{}{}
	}
	return tool.Execute(ctx, args)
}

// FormatValue renders a tool output for the conversation
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	if data, err := json.MarshalIndent(v, "", "  "); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

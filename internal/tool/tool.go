package tool

import (
	"context"
	"encoding/json"
	"time"
)

// Tool is the contract for a named, schema-described operation exposed for
// discovery and invocation by a human or automated caller.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map describing the tool's arguments.
	Parameters() map[string]any
	// Execute runs the tool with the raw argument JSON and returns the result JSON.
	// Implementations validate arguments before doing any work.
	Execute(ctx context.Context, argsJSON []byte) (json.RawMessage, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool
// settings. Registry uses Timeout() to override the default execution timeout when set.
// Kind and Tags drive discovery filtering.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Kind() string
	Version() string
}

// ToolCall is a single execution request.
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage // JSON payload of arguments
}

// ToolResult is the outcome of one execution. Exactly one of Result and Error
// is meaningful; Args echoes the caller-supplied arguments.
type ToolResult struct {
	CallID     string
	ToolName   string
	Args       json.RawMessage
	Result     json.RawMessage
	Error      error
	ExecutedAt time.Time
	Duration   time.Duration
}

// Failed reports whether the execution ended in the failed state.
func (r ToolResult) Failed() bool { return r.Error != nil }

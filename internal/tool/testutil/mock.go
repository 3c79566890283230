// Package testutil provides test helpers for the tool engine (e.g. MockTool).
package testutil

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/medai/medmcp/internal/tool"
)

// MockTool is a configurable Tool implementation for tests. It counts
// invocations so tests can assert that validation failures never reach the
// handler.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]any
	ExecuteFn func(ctx context.Context, args []byte) (json.RawMessage, error)

	calls atomic.Int64
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or empty map).
func (m *MockTool) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{}
}

// Execute increments the invocation counter and runs ExecuteFn if set,
// otherwise returns an empty object.
func (m *MockTool) Execute(ctx context.Context, args []byte) (json.RawMessage, error) {
	m.calls.Add(1)
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args)
	}
	return json.RawMessage(`{}`), nil
}

// Calls returns how many times Execute has been invoked.
func (m *MockTool) Calls() int64 { return m.calls.Load() }

// Ensure MockTool implements Tool.
var _ tool.Tool = (*MockTool)(nil)

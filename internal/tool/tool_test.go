package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestToolCall_Result(t *testing.T) {
	call := ToolCall{ID: "call_1", ToolName: "list_doctors", Args: []byte(`{"specialty":"Cardiology"}`)}
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "list_doctors", call.ToolName)
	assert.JSONEq(t, `{"specialty":"Cardiology"}`, string(call.Args))

	res := ToolResult{CallID: call.ID, ToolName: call.ToolName, Result: []byte(`{"count":5}`)}
	assert.False(t, res.Failed())
	res.Error = ErrToolNotFound
	assert.True(t, res.Failed())
}

// Ensure Tool interface is satisfied by a minimal impl (used in tests later).
type minTool struct {
	name, desc string
	params     map[string]any
	execute    func(context.Context, []byte) (json.RawMessage, error)
}

func (m minTool) Name() string               { return m.name }
func (m minTool) Description() string        { return m.desc }
func (m minTool) Parameters() map[string]any { return m.params }
func (m minTool) Execute(ctx context.Context, args []byte) (json.RawMessage, error) {
	if m.execute != nil {
		return m.execute(ctx, args)
	}
	return json.RawMessage(`{}`), nil
}

func TestMinTool_ImplementsTool(_ *testing.T) {
	var _ Tool = minTool{}
}

func ExampleNewTool() {
	type Args struct {
		City string `json:"city" description:"City name"`
	}
	type Out struct {
		Temp float64 `json:"temp"`
	}
	t, err := NewTool("weather", "Get temperature for a city", func(_ context.Context, _ Args) (Out, error) {
		return Out{Temp: 22.5}, nil
	})
	if err != nil {
		return
	}
	_ = t.Name()
	_ = t.Description()
	_ = t.Parameters()
	// Output:
}

func ExampleRegistry_Execute() {
	type Args struct {
		X int `json:"x"`
	}
	type Out struct {
		Y int `json:"y"`
	}
	t, err := NewTool("add_one", "Add one", func(_ context.Context, a Args) (Out, error) {
		return Out{Y: a.X + 1}, nil
	})
	if err != nil {
		return
	}
	reg := NewRegistry()
	if err := reg.Register(t); err != nil {
		return
	}
	res := reg.Execute(context.Background(), ToolCall{
		ID: "1", ToolName: "add_one", Args: []byte(`{"x": 5}`),
	})
	if res.Error != nil {
		panic(res.Error)
	}
	// res.Result is []byte(`{"y":6}`)
	_ = res.Result
	// Output:
}

// Package tool provides a type-safe engine for registering, describing,
// and safely executing tools (named operations) behind a discovery and
// execution API.
//
// # Overview
//
// Callers produce tool calls as JSON. This package turns that JSON into
// concrete Go function calls: unmarshal → fill defaults → validate (against
// the same JSON Schema returned by discovery) → execute → marshal result or
// return a clear error for self-correction.
//
// Pipeline: Go function + argument struct → NewTool (reflection + schema) →
// Tool → Registry → Execute (validate, call, marshal) → ToolResult.
//
// # Key concepts
//
//   - Single Source of Truth: one set of struct tags drives both the schema
//     shown to callers and the validation of incoming JSON.
//   - Partial Success: ExecuteBatch collects all results; one failure does not cancel others.
//   - Self-Correction: ClientError carries human-readable messages back to the caller;
//     SystemError hides internal detail.
//
// See Tool, ToolCall, ToolResult for the core types, and NewTool / NewRegistry for setup.
//
// # Example
//
//	type Args struct { City string `json:"city"` }
//	type Out  struct { Temp float64 `json:"temp"` }
//	t, err := tool.NewTool("weather", "Get weather", func(_ context.Context, a Args) (Out, error) {
//	    return Out{Temp: 22.5}, nil
//	})
//	if err != nil { ... }
//	reg := tool.NewRegistry()
//	if err := reg.Register(t); err != nil { ... }
//	res := reg.Execute(ctx, tool.ToolCall{ID: "1", ToolName: "weather", Args: []byte(`{"city":"Oslo"}`)})
package tool

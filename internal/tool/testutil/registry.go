package testutil

import (
	"testing"
	"time"

	"github.com/medai/medmcp/internal/tool"
)

// NewTestRegistry returns a Registry with long timeout and panic recovery enabled,
// suitable for tests. Registration failures fail the test immediately.
func NewTestRegistry(tb testing.TB, tools ...tool.Tool) *tool.Registry {
	tb.Helper()
	reg := tool.NewRegistry(
		tool.WithDefaultTimeout(30*time.Second),
		tool.WithRecoverPanics(true),
	)
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			tb.Fatalf("register %s: %v", t.Name(), err)
		}
	}
	return reg
}

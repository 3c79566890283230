package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Registry holds tools and executes them with timeout, semaphore, and optional
// panic recovery. Registration order is preserved so discovery output is stable.
type Registry struct {
	tools       map[string]Tool // wrapped with middlewares, used by Execute
	rawTools    map[string]Tool // unwrapped, used by Use() to re-apply middlewares from scratch
	order       []string
	sem         chan struct{}
	opts        registryOptions
	done        chan struct{}
	running     sync.WaitGroup
	mu          sync.Mutex
	middlewares []Middleware
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		timeout:        5 * time.Second,
		maxConcurrency: 10,
		recoverPanics:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
		sem:      sem,
		opts:     o,
		done:     make(chan struct{}),
	}
}

// Register adds a tool. Stored middlewares (see Use) are applied to the tool
// before registration. Returns ErrDuplicateTool if a tool with the same name
// already exists; duplicate registration is a startup defect, not a runtime
// condition. Safe for concurrent use with Execute and other Register calls.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.rawTools[name] = t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// All returns all registered tools in registration order (e.g. for discovery output).
func (r *Registry) All() []Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Filter returns registered tools matching the optional tag and kind
// predicates, in registration order. Empty tag or kind matches everything.
// Tools without metadata match only empty predicates.
func (r *Registry) Filter(tag, kind string) []Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		if !matchesMeta(t, tag, kind) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesMeta(t Tool, tag, kind string) bool {
	if tag == "" && kind == "" {
		return true
	}
	tm, ok := t.(ToolMetadata)
	if !ok {
		return false
	}
	if kind != "" && tm.Kind() != kind {
		return false
	}
	if tag != "" {
		for _, have := range tm.Tags() {
			if have == tag {
				return true
			}
		}
		return false
	}
	return true
}

// Get returns the tool with the given name (after middlewares are applied),
// or ErrToolNotFound.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Execute runs one tool call through the received → validated → dispatched
// pipeline and returns a ToolResult (completed or failed). Validation happens
// inside the tool's Execute; the registry handles lookup, concurrency limit,
// timeout, panic recovery, and the before/after hooks. The after-execution
// hook (WithOnAfterExecute) is always invoked via defer once the tool is found.
func (r *Registry) Execute(ctx context.Context, call ToolCall) (res ToolResult) {
	res = ToolResult{CallID: call.ID, ToolName: call.ToolName, Args: call.Args}

	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		res.Error = ErrShutdown
		res.ExecutedAt = time.Now()
		return res
	default:
	}
	t, ok := r.tools[call.ToolName]
	if !ok {
		r.mu.Unlock()
		res.Error = fmt.Errorf("%w: %s", ErrToolNotFound, call.ToolName)
		res.ExecutedAt = time.Now()
		return res
	}
	r.running.Add(1)
	r.mu.Unlock()

	if err := r.acquireSemaphore(ctx); err != nil {
		r.running.Done()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		res.Error = err
		res.ExecutedAt = time.Now()
		return res
	}
	defer r.releaseSemaphore()
	defer r.running.Done()

	timeout := r.opts.timeout
	if tm, ok := t.(ToolMetadata); ok && tm.Timeout() > 0 {
		timeout = tm.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	// Ensure the after-execution hook always sees the final result.
	// Recover defer is registered after this one so it runs first on panic and
	// sets res.Error before the hook runs.
	defer func() {
		res.Duration = time.Since(start)
		res.ExecutedAt = time.Now()
		if r.opts.onAfter != nil {
			r.opts.onAfter(ctx, call, res)
		}
	}()
	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				res.Result = nil
				res.Error = &SystemError{Err: &panicError{p: p}}
			}
		}()
	}

	if r.opts.onBefore != nil {
		r.opts.onBefore(ctx, call)
	}

	out, err := t.Execute(ctx, call.Args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s", ErrTimeout, call.ToolName)
		}
		res.Error = err
		return res
	}
	res.Result = out
	return res
}

func (r *Registry) acquireSemaphore(ctx context.Context) error {
	if r.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) releaseSemaphore() {
	if r.sem != nil {
		<-r.sem
	}
}

// ExecuteBatch runs all calls in parallel and returns their results in call
// order. Failure of one call never aborts the others; each slot carries its
// own completed result or error.
func (r *Registry) ExecuteBatch(ctx context.Context, calls []ToolCall) []ToolResult {
	if len(calls) == 0 {
		return nil
	}
	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Go(func() {
			results[i] = r.Execute(ctx, call)
		})
	}
	wg.Wait()
	return results
}

// Shutdown closes the registry for new calls and waits for in-flight executions or ctx to cancel.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return nil
	default:
		close(r.done)
	}
	r.mu.Unlock()
	done := make(chan struct{})
	go func() {
		r.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// panicError wraps a recovered panic value for SystemError; used by Registry and WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}

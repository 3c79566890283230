package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validatableArgs checks a cross-field invariant after schema validation.
type validatableArgs struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (a validatableArgs) Validate() error {
	if a.Low > a.High {
		return errors.New("low must not exceed high")
	}
	return nil
}

// ptrValidatableArgs implements Validatable on the pointer receiver.
type ptrValidatableArgs struct {
	Count int `json:"count"`
}

func (a *ptrValidatableArgs) Validate() error {
	if a.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func TestValidatable_ValueReceiver(t *testing.T) {
	t.Parallel()
	tl, err := NewTool("range", "range check", func(ctx context.Context, args validatableArgs) (int, error) {
		return args.High - args.Low, nil
	})
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{"low": 2, "high": 8}`))
	require.NoError(t, err)
	assert.JSONEq(t, `6`, string(out))

	_, err = tl.Execute(context.Background(), json.RawMessage(`{"low": 8, "high": 2}`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "low must not exceed high")
}

func TestValidatable_PointerReceiver(t *testing.T) {
	t.Parallel()
	tl, err := NewTool("counter", "counter check", func(ctx context.Context, args ptrValidatableArgs) (int, error) {
		return args.Count, nil
	})
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), json.RawMessage(`{"count": 3}`))
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(out))

	_, err = tl.Execute(context.Background(), json.RawMessage(`{"count": -1}`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidatable_FailureNeverInvokesHandler(t *testing.T) {
	t.Parallel()
	invoked := false
	tl, err := NewTool("guarded", "guarded", func(ctx context.Context, args validatableArgs) (int, error) {
		invoked = true
		return 0, nil
	})
	require.NoError(t, err)

	_, err = tl.Execute(context.Background(), json.RawMessage(`{"low": 9, "high": 1}`))
	require.Error(t, err)
	assert.False(t, invoked, "handler must not run when custom validation fails")
}

func TestValidateCall_NilAndEmptyArgs(t *testing.T) {
	t.Parallel()
	type Args struct {
		Pref string `json:"pref,omitempty" default:"any"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	for _, raw := range [][]byte{nil, []byte(""), []byte(`{}`)} {
		args, err := ext.ParseAndValidate(raw)
		require.NoError(t, err)
		assert.Equal(t, "any", args.Pref)
	}
}

func TestValidateCall_NullArgs(t *testing.T) {
	t.Parallel()
	type Args struct {
		Pref string `json:"pref,omitempty"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	args, err := ext.ParseAndValidate([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, args.Pref)
}

func TestValidateCall_NonObjectArgs(t *testing.T) {
	t.Parallel()
	type Args struct {
		Pref string `json:"pref,omitempty"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`[1, 2, 3]`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)
}

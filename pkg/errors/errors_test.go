// Package errors_test covers the AppError type, factory functions and the
// error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"bad longitude", errors.CodeInvalidLongitude, "moon longitude 361 outside [0,360)"},
		{"invalid param", errors.CodeInvalidParam, "cycles must be positive"},
		{"out of range", errors.CodePeriodOutOfRange, "as-of precedes birth"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.CodeInvalidHouse, "house %d for %s", 13, "Mars")
	assert.Equal(t, "house 13 for Mars", ae.Message)
	assert.Equal(t, errors.CodeInvalidHouse, ae.Code)
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	require.NotNil(t, ae)
	assert.Contains(t, ae.Stack, "errors_test.go")
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.CodeCacheError, "timeline cache unreachable")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeCacheError, wrapped.Code)
	assert.Equal(t, "timeline cache unreachable", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodePeriodOutOfRange, "beyond last cycle")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodePeriodOutOfRange, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodePeriodOutOfRange, "beyond last cycle")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeMissingBody, "chart has no Moon")
	s := ae.Error()

	assert.Equal(t, "[CHART_003] chart has no Moon", s)
	assert.Equal(t, 1, strings.Count(s, "]"))
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInvalidLongitude, "invalid longitude").
		WithDetail("body=Moon value=-3")

	assert.Equal(t, "[CHART_001] invalid longitude: body=Moon value=-3", ae.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWithDetail / TestWithCause
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_SetsDetailOnCopy(t *testing.T) {
	t.Parallel()

	original := errors.NotFound("resource missing")
	detailed := original.WithDetail("id=42")

	assert.Empty(t, original.Detail, "WithDetail must not mutate the original")
	assert.Equal(t, "id=42", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithCause_AttachesCauseWithoutMutation(t *testing.T) {
	t.Parallel()

	root := stderrors.New("redis: nil")
	original := errors.New(errors.CodeCacheError, "cache error")
	withCause := original.WithCause(root)

	assert.Nil(t, original.Cause)
	assert.Equal(t, root, withCause.Cause)
	assert.True(t, stderrors.Is(withCause, root))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsCode / TestGetCode
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_NestedChain(t *testing.T) {
	t.Parallel()

	level0 := errors.New(errors.CodeInvalidLongitude, "bad longitude")
	level1 := errors.Wrap(level0, errors.CodeInvalidParam, "chart validation failed")
	level2 := fmt.Errorf("cli: %w", level1)

	assert.True(t, errors.IsCode(level2, errors.CodeInvalidLongitude))
	assert.True(t, errors.IsCode(level2, errors.CodeInvalidParam))
	assert.False(t, errors.IsCode(level2, errors.CodeInternal))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	inner := errors.OutOfRange("beyond cycles")
	outer := errors.Wrap(inner, errors.CodeInternal, "lookup failed")
	assert.Equal(t, errors.CodeInternal, errors.GetCode(outer))
	assert.Equal(t, errors.CodePeriodOutOfRange, errors.GetCode(fmt.Errorf("x: %w", inner)))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestConvenienceFactories
// ─────────────────────────────────────────────────────────────────────────────

func TestConvenienceFactories_ReturnCorrectCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      *errors.AppError
		wantCode errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("not found"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("bad input"), errors.CodeInvalidParam},
		{"OutOfRange", errors.OutOfRange("too late"), errors.CodePeriodOutOfRange},
		{"NotApplicable", errors.NotApplicable("rahu in lagna"), errors.CodeSystemNotApplicable},
		{"Internal", errors.Internal("boom"), errors.CodeInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestStdlib_ErrorsAs_ExtractsAppError(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeSystemNotApplicable, "ashtottari not applicable")
	wrapped := fmt.Errorf("service: %w", original)

	var ae *errors.AppError
	require.True(t, stderrors.As(wrapped, &ae))
	assert.Equal(t, errors.CodeSystemNotApplicable, ae.Code)
}

//Personal.AI order the ending

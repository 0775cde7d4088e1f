package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pkgerrors "github.com/agentstation/amjd/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "event",
			ID:       "SE_1999_08_11",
		}
		assert.Equal(t, "event with ID SE_1999_08_11 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("event", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "source",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field source: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestUnsupportedSystemError(t *testing.T) {
	err := pkgerrors.NewUnsupportedSystemError("klingon")
	assert.Equal(t, `unsupported calendar system: "klingon"`, err.Error())
	assert.True(t, pkgerrors.IsUnsupportedSystem(err))
	assert.True(t, pkgerrors.IsUnsupportedSystem(fmt.Errorf("row 3: %w", err)))
	assert.False(t, pkgerrors.IsValidationError(err))
}

func TestMissingColumnsError(t *testing.T) {
	err := &pkgerrors.MissingColumnsError{
		Source:  "gsfc_master",
		Path:    "data/AMJD_MASTER_GSFC_BATCH6.csv",
		Missing: []string{"key|tag|id", "kind|type"},
	}
	assert.Equal(t,
		"gsfc_master (data/AMJD_MASTER_GSFC_BATCH6.csv): missing required columns [key|tag|id, kind|type]",
		err.Error())
	assert.True(t, pkgerrors.IsMissingColumns(err))

	var target *pkgerrors.MissingColumnsError
	require.True(t, errors.As(fmt.Errorf("reconcile: %w", err), &target))
	assert.Len(t, target.Missing, 2)
}

func TestSourceMissingError(t *testing.T) {
	err := &pkgerrors.SourceMissingError{Source: "volcano", Path: "AMJD_VOLCANO_PROCESSED.csv"}
	assert.Contains(t, err.Error(), "volcano")
	assert.True(t, pkgerrors.IsSourceMissing(err))
	assert.False(t, pkgerrors.IsMissingColumns(err))
}

func TestDateParseError(t *testing.T) {
	err := pkgerrors.NewDateParseError("2025-13", "expected Y-M-D")
	assert.Equal(t, `cannot parse "2025-13": expected Y-M-D`, err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, pkgerrors.WrapIO("read", "x.csv", nil))
	assert.Nil(t, pkgerrors.WrapParse("csv", "x.csv", nil))
	assert.Nil(t, pkgerrors.WrapValidation("f", nil))
	assert.Nil(t, pkgerrors.WrapResource("save", "index", "", nil))

	ioErr := pkgerrors.WrapIO("read", "x.csv", base)
	assert.ErrorIs(t, ioErr, base)
	assert.Contains(t, ioErr.Error(), "x.csv")

	parseErr := pkgerrors.WrapParse("csv", "x.csv", base)
	assert.ErrorIs(t, parseErr, base)

	resErr := pkgerrors.WrapResource("save", "index", "run-1", base)
	assert.Equal(t, "failed to save index run-1: boom", resErr.Error())
}

func TestWrapTimeout(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapTimeout("load", time.Second, nil))

	other := errors.New("boom")
	assert.Same(t, other, pkgerrors.WrapTimeout("load", time.Second, other))

	err := pkgerrors.WrapTimeout("load event index", 2*time.Second, fmt.Errorf("read: %w", context.DeadlineExceeded))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrTimeout))
	var te *pkgerrors.TimeoutError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "load event index", te.Operation)
	assert.Equal(t, "2s", te.Duration)
	assert.Contains(t, err.Error(), "timed out after 2s")
}

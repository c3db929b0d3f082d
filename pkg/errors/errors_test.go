package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Wrap(cause, ErrStorage.Code, ErrStorage.Status, "failed to mark attendance")

	assert.Equal(t, "failed to mark attendance: database is locked", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestFromError(t *testing.T) {
	appErr := FromError(ErrNotFound)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)

	wrapped := fmt.Errorf("handler: %w", ErrConflict)
	appErr = FromError(wrapped)
	assert.Equal(t, ErrConflict.Code, appErr.Code)

	appErr = FromError(errors.New("plain"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	assert.Nil(t, FromError(nil))
}

func TestCloneOverridesMessageOnly(t *testing.T) {
	clone := Clone(ErrConflict, "student_id already used")
	require.NotNil(t, clone)
	assert.Equal(t, ErrConflict.Code, clone.Code)
	assert.Equal(t, ErrConflict.Status, clone.Status)
	assert.Equal(t, "student_id already used", clone.Message)
	assert.Equal(t, "constraint violation", ErrConflict.Message)
}

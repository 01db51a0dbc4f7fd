package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Status(InvalidCredentials()))
	assert.Equal(t, http.StatusForbidden, Status(Forbidden("no")))
	assert.Equal(t, http.StatusPreconditionFailed, Status(&PreconditionError{
		Stage: "installation", Blocking: "clearance", Required: "clearance_approved",
	}))
	assert.Equal(t, http.StatusBadRequest, Status(Invalid("name", "required")))
	assert.Equal(t, http.StatusNotFound, Status(NotFound("project")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("update failed: %w", Forbidden("no"))
	assert.Equal(t, http.StatusForbidden, Status(wrapped))
}

func TestPreconditionMessageNamesBlockingStage(t *testing.T) {
	err := &PreconditionError{Stage: "connection", Blocking: "installation", Required: "installation_completed"}
	assert.Contains(t, err.Error(), "installation")
	assert.Contains(t, err.Error(), "installation_completed")
}

func TestValidationMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "bad", "a": "missing"}}
	assert.Equal(t, "validation failed: a: missing; b: bad", err.Error())
}

package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"go-dreamjob-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperror.BadRequest("bad").Code)
	assert.Equal(t, http.StatusForbidden, apperror.Forbidden("nope").Code)
	assert.Equal(t, http.StatusNotFound, apperror.NotFound("missing").Code)
	assert.Equal(t, http.StatusConflict, apperror.Conflict("dup").Code)
	assert.Equal(t, http.StatusTooManyRequests, apperror.TooManyRequests("slow down").Code)
	assert.Equal(t, "missing", apperror.NotFound("missing").Error())
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperror.Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.True(t, errors.Is(err, cause))

	var appErr *apperror.AppError
	assert.True(t, errors.As(error(err), &appErr))
}

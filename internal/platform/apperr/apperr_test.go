package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Auth(), http.StatusUnauthorized},
		{Invariant("last admin"), http.StatusUnprocessableEntity},
		{Storage(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Validation("bad"), CodeValidation))
	assert.False(t, IsCode(Validation("bad"), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeValidation))

	// wrapped errors still match
	wrapped := fmt.Errorf("context: %w", NotFound("gone"))
	assert.True(t, IsCode(wrapped, CodeNotFound))
}

func TestAuthMessageStaysGeneric(t *testing.T) {
	assert.Equal(t, "AUTH: authentication failed", Auth().Error())
}

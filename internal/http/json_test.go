package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/aulaplus/aula-ui/internal/errors"
)

func TestWriteAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest},
		{"unauthenticated", apperrors.Unauthenticated("no token"), http.StatusUnauthorized},
		{"invalid credentials", apperrors.InvalidCredentials("rejected"), http.StatusUnauthorized},
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict},
		{"stale", apperrors.Stale("lost the race"), http.StatusConflict},
		{"timeout", &apperrors.AppError{Code: apperrors.ErrCodeTimeout, Message: "deadline"}, http.StatusGatewayTimeout},
		{"transport", apperrors.Transport("unreachable"), http.StatusBadGateway},
		{"malformed response", apperrors.MalformedResponse("missing field"), http.StatusBadGateway},
		{"internal", apperrors.Internal("boom"), http.StatusInternalServerError},
		{"plain error", assertableErr{}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAppError(w, tt.err)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

type assertableErr struct{}

func (assertableErr) Error() string { return "plain" }

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":true}`))
	w := httptest.NewRecorder()

	ok := DecodeJSON(w, r, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeJSONAcceptsValidBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	w := httptest.NewRecorder()

	ok := DecodeJSON(w, r, &dst)
	assert.True(t, ok)
	assert.Equal(t, "a", dst.Name)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crewlink-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrNotAuthorized, http.StatusForbidden},
		{services.ErrInvalidTarget, http.StatusBadRequest},
		{services.ErrInvalidDeclaration, http.StatusBadRequest},
		{services.ErrInvalidDateRange, http.StatusBadRequest},
		{services.ErrAlreadyConnected, http.StatusConflict},
		{services.ErrRequestAlreadyPending, http.StatusConflict},
		{services.ErrInvalidState, http.StatusConflict},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), "error: %v", tt.err)
	}
}

func TestStatusForError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("accepting request: %w", services.ErrInvalidState)
	assert.Equal(t, http.StatusConflict, statusForError(wrapped))
}

func TestTodayFromRequest(t *testing.T) {
	timeNow = func() time.Time {
		return time.Date(2024, time.March, 15, 8, 30, 0, 0, time.UTC)
	}
	defer func() { timeNow = time.Now }()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/visibility", nil)
	d, err := todayFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())

	r = httptest.NewRequest(http.MethodGet, "/api/v1/visibility?date=2024-03-16", nil)
	d, err = todayFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", d.String())

	r = httptest.NewRequest(http.MethodGet, "/api/v1/visibility?date=bogus", nil)
	_, err = todayFromRequest(r)
	require.Error(t, err)
}

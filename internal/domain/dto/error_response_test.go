package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_Error(t *testing.T) {
	cases := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{name: "message only", resp: ErrorResponse{Message: "symbol not found"}, want: "symbol not found"},
		{name: "with details", resp: ErrorResponse{Message: "invalid query parameters", ErrorDetails: "window must be >= 1"}, want: "invalid query parameters: window must be >= 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.resp.Error())
		})
	}
}

func TestNewErrorResponse_StampsUTC(t *testing.T) {
	resp := NewErrorResponse("internal server error", errors.New("disk full"))

	assert.Equal(t, "internal server error", resp.Message)
	assert.Equal(t, "disk full", resp.ErrorDetails)
	assert.Equal(t, time.UTC, resp.Timestamp.Location())
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Second)
}

func TestErrorResponse_JSON(t *testing.T) {
	ts := time.Date(2025, 11, 17, 9, 30, 0, 0, time.UTC)

	t.Run("details omitted when empty", func(t *testing.T) {
		b, err := json.Marshal(ErrorResponse{Message: "not found", Timestamp: ts})
		require.NoError(t, err)
		assert.JSONEq(t, `{"message":"not found","timestamp":"2025-11-17T09:30:00Z"}`, string(b))
	})

	t.Run("details present", func(t *testing.T) {
		resp := NewErrorResponse("invalid query parameters", errors.New("from: expected YYYY-MM-DD"))
		b, err := json.Marshal(resp)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		assert.Equal(t, "invalid query parameters", m["message"])
		assert.Equal(t, "from: expected YYYY-MM-DD", m["error_details"])
		raw, ok := m["timestamp"].(string)
		require.True(t, ok, "timestamp must be a string")
		assert.Regexp(t, `Z$`, raw, "timestamp must be rendered in UTC")
	})
}

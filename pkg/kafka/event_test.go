package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("user.created", "5", "user", "authcore", map[string]any{"user_id": 5})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())

	var payload struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, evt.UnmarshalData(&payload))
	assert.Equal(t, int64(5), payload.UserID)
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("user.created", "5", "user", "authcore", make(chan int))
	assert.Error(t, err)
}

func TestEvent_Marshal(t *testing.T) {
	evt, err := NewEvent("user.updated", "9", "user", "authcore", map[string]any{"fields": []string{"email"}})
	require.NoError(t, err)
	evt.WithCorrelationID("c-1")

	raw, err := evt.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "user.updated", decoded["event_type"])
	assert.Equal(t, "c-1", decoded["correlation_id"])
	assert.Equal(t, "9", decoded["aggregate_id"])
}

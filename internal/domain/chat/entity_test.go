package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSenderID(t *testing.T) {
	assert.Equal(t, SenderID{UserID: 12}, ParseSenderID("12"))
	assert.Equal(t, SenderID{Alias: "Anon42"}, ParseSenderID("Anon42"))
	// Ids are positive; these read as aliases.
	assert.Equal(t, SenderID{Alias: "0"}, ParseSenderID("0"))
	assert.Equal(t, SenderID{Alias: "-3"}, ParseSenderID("-3"))
}

func TestSenderIDWireFormat(t *testing.T) {
	raw, err := json.Marshal(UserSender(7))
	require.NoError(t, err)
	assert.Equal(t, `"7"`, string(raw))

	raw, err = json.Marshal(AliasSender("Anon42"))
	require.NoError(t, err)
	assert.Equal(t, `"Anon42"`, string(raw))

	var s SenderID
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &s))
	assert.True(t, s.IsUser())
	assert.Equal(t, int64(7), s.UserID)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusQueued.Valid())
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusEnded.Valid())
	assert.False(t, Status("paused").Valid())
}

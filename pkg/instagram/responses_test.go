package instagram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igmobile/pkg/errors"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ID
	}{
		{"number", `{"pk":1234567890123456789}`, "1234567890123456789"},
		{"string", `{"pk":"abc"}`, "abc"},
		{"null", `{"pk":null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Pk ID `json:"pk"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.expected, v.Pk)
		})
	}
}

func TestIDRejectsObjects(t *testing.T) {
	var v struct {
		Pk ID `json:"pk"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"pk":{}}`), &v))
}

func TestStatusMessage(t *testing.T) {
	var plain statusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":"fail","message":"login_required"}`), &plain))
	assert.Equal(t, statusMessage("login_required"), plain.Message)
	assert.False(t, plain.ok())

	var wrapped statusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":"fail","message":{"errors":["one","two"]}}`), &wrapped))
	assert.Equal(t, statusMessage("one\ntwo"), wrapped.Message)
}

func TestFriendshipResponseFields(t *testing.T) {
	flat, err := decode[friendshipResponse]([]byte(`{"status":"ok","following":true,"followed_by":true}`))
	require.NoError(t, err)
	assert.True(t, flat.fields().FollowedBy)

	nested, err := decode[friendshipResponse]([]byte(`{"status":"ok","friendship_status":{"outgoing_request":true}}`))
	require.NoError(t, err)
	assert.True(t, nested.fields().OutgoingRequest)
	assert.False(t, nested.fields().Following)
}

func TestDecodeWrapsParsingErrors(t *testing.T) {
	_, err := decode[statusResponse]([]byte("<html>"))
	assert.True(t, errs.Is(err, errs.ErrorTypeParsing))
}

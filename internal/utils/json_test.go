package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Username string `json:"username"`
}

func TestDecodeJSONRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"alice","extra":1}`))

	var p payload
	require.NoError(t, DecodeJSONRequest(r, &p))
	assert.Equal(t, "alice", p.Username)
}

func TestDecodeJSONRequestErrors(t *testing.T) {
	var p payload

	err := DecodeJSONRequest(httptest.NewRequest("POST", "/login", strings.NewReader("  ")), &p)
	assert.ErrorIs(t, err, ErrEmptyBody)

	err = DecodeJSONRequest(httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":`)), &p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

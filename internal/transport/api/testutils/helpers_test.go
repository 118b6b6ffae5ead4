package testutils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiByteText(t *testing.T) {
	text := MultiByteText(300)
	assert.Equal(t, 300, utf8.RuneCountInString(text))
	assert.Equal(t, 600, len(text))
}

func TestCredentials(t *testing.T) {
	creds := Credentials(3)
	require.Len(t, creds, 3)
	assert.Equal(t, "cuenta1@luffy.pe:clave1", creds[0])
	assert.Equal(t, "cuenta3@luffy.pe:clave3", creds[2])
}

func TestDecodeJSONAndLookup(t *testing.T) {
	body, err := DecodeJSON(strings.NewReader(`{"product":{"id":1,"availableCredentials":4}}`))
	require.NoError(t, err)

	v, ok := Lookup(body, "product", "availableCredentials")
	require.True(t, ok)
	assert.InDelta(t, 4, v, 0)

	_, ok = Lookup(body, "product", "id", "nested")
	assert.False(t, ok)

	empty, emptyErr := DecodeJSON(strings.NewReader(""))
	require.NoError(t, emptyErr)
	assert.Nil(t, empty)

	_, badErr := DecodeJSON(strings.NewReader("<html>"))
	assert.Error(t, badErr)
}

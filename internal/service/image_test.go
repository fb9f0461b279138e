package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	encoded := base64.StdEncoding.EncodeToString(raw)

	data, contentType, err := DecodeBase64Image("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/jpeg", contentType)

	// A bare base64 string is accepted and defaults to PNG.
	data, contentType, err = DecodeBase64Image(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeBase64ImageInvalid(t *testing.T) {
	var vErr *ValidationError

	_, _, err := DecodeBase64Image("data:image/png,no-base64-marker")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "image", vErr.Field)

	_, _, err = DecodeBase64Image("data:image/png;base64,@@@not-base64@@@")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "image", vErr.Field)
}

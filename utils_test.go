package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToE164(t *testing.T) {
	formatted, err := FormatToE164("+44 7700 900123")
	require.NoError(t, err)
	assert.Equal(t, "+447700900123", formatted)

	// Bare NANP numbers are assumed US.
	formatted, err = FormatToE164("4155552671")
	require.NoError(t, err)
	assert.Equal(t, "+14155552671", formatted)

	_, err = FormatToE164("")
	assert.Error(t, err)

	_, err = FormatToE164("not-a-number")
	assert.Error(t, err)
}

func TestStringInArray(t *testing.T) {
	assert.True(t, StringInArray("sms", []string{"sms", "voice"}))
	assert.False(t, StringInArray("mms", []string{"sms", "voice"}))
	assert.False(t, StringInArray("sms", nil))
}

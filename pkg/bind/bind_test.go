package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brandInput struct {
	Brand string `json:"brand" validate:"required,max=100"`
}

func TestJSON(t *testing.T) {
	var in brandInput
	errs, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"brand":"Trek"}`)), &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Trek", in.Brand)
}

func TestJSONValidation(t *testing.T) {
	var in brandInput
	errs, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"brand":""}`)), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "brand")
}

func TestJSONRejectsBadBodies(t *testing.T) {
	for name, body := range map[string]string{
		"empty":   "",
		"garbage": "{brand",
		"unknown": `{"brand":"Trek","colour":"red"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var in brandInput
			_, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(body)), &in)
			assert.Error(t, err)
		})
	}
}

func TestJSONTooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "16")
	var in brandInput
	_, err := JSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"brand":"`+strings.Repeat("x", 64)+`"}`)), &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

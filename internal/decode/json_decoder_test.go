package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamrasal/natscan/internal/engine"
)

func TestJSONDecoder_MixedTypes(t *testing.T) {
	dec := NewJSONDecoder([]string{"name", "count", "active", "missing", "meta"})
	payload := []byte(`{"name":"widget","count":42,"active":true,"meta":{"a":1}}`)

	out, ok := dec.Decode(payload)
	require.True(t, ok)
	require.Len(t, out, 5)

	assert.Equal(t, "widget", out[0].Str)
	assert.Equal(t, "42.000000", out[1].Str)
	assert.Equal(t, "true", out[2].Str)
	assert.True(t, out[3].Null)
	assert.JSONEq(t, `{"a":1}`, out[4].Str)
}

func TestJSONDecoder_NullField(t *testing.T) {
	dec := NewJSONDecoder([]string{"x"})
	out, ok := dec.Decode([]byte(`{"x":null}`))
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.True(t, out[0].Null)
}

func TestJSONDecoder_MalformedPayloadNullsAllColumns(t *testing.T) {
	dec := NewJSONDecoder([]string{"a", "b"})
	out, ok := dec.Decode([]byte(`not json`))
	require.False(t, ok)
	require.Len(t, out, 2)
	assert.True(t, out[0].Null)
	assert.True(t, out[1].Null)
	assert.Equal(t, engine.KindVarChar, out[0].Kind)
}

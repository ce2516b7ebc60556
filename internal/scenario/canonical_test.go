package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"zebra": int64(1),
		"alpha": int64(2),
		"mike":  int64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mike":3,"zebra":1}`, string(out))
}

func TestMarshalCanonical_NestedStructure(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"trace": []any{
			map[string]any{"seq": int64(1), "kind": "seal"},
		},
		"pass": true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"pass":true,"trace":[{"kind":"seal","seq":1}]}`, string(out))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	out, err := MarshalCanonical("a < b && c > d")
	require.NoError(t, err)
	assert.Equal(t, `"a < b && c > d"`, string(out))
}

func TestMarshalCanonical_ControlCharEscaping(t *testing.T) {
	out, err := MarshalCanonical("line1\nline2\ttab\x01raw")
	require.NoError(t, err)
	assert.Equal(t, `"line1\nline2\ttab\u0001raw"`, string(out))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// e + combining acute accent normalizes to precomposed é.
	out, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(out))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	input := map[string]any{
		"summary": []any{"a", "b"},
		"seq":     int64(42),
		"name":    "run",
	}

	first, err := MarshalCanonical(input)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

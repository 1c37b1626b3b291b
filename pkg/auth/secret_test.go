package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret_UnmarshalJSON(t *testing.T) {
	var body struct {
		Password Secret `json:"password"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"password":"Bench-Press-1"}`), &body))
	assert.Equal(t, []byte("Bench-Press-1"), []byte(body.Password))
}

func TestSecret_UnmarshalJSON_Escaped(t *testing.T) {
	var body struct {
		Password Secret `json:"password"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"password":"quo\"te"}`), &body))
	assert.Equal(t, []byte(`quo"te`), []byte(body.Password))
}

func TestSecret_UnmarshalJSON_EscapeSequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"backslash and slash", `"a\\b\/c"`, `a\b/c`},
		{"control escapes", `"\t\n\r\b\f"`, "\t\n\r\b\f"},
		{"unicode", `"caf\u00e9"`, "café"},
		{"surrogate pair", `"lift\ud83d\udcaa"`, "lift\U0001F4AA"},
		{"lone surrogate", `"x\ud83dy"`, "x\uFFFDy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Secret
			require.NoError(t, got.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, []byte(tt.want), []byte(got))

			var std string
			require.NoError(t, json.Unmarshal([]byte(tt.in), &std))
			assert.Equal(t, std, tt.want)
		})
	}
}

func TestSecret_UnmarshalJSON_MalformedEscape(t *testing.T) {
	for _, in := range []string{`"bad\x"`, `"short\u12"`, `"trailing\"`} {
		var got Secret
		assert.Error(t, got.UnmarshalJSON([]byte(in)), in)
		assert.Nil(t, got)
	}
}

func TestSecret_UnmarshalJSON_RejectsNonString(t *testing.T) {
	var body struct {
		Password Secret `json:"password"`
	}

	assert.Error(t, json.Unmarshal([]byte(`{"password":12345}`), &body))
}

func TestSecret_NeverPrinted(t *testing.T) {
	s := Secret("hunter2")

	assert.Equal(t, "[REDACTED]", fmt.Sprint(s))
	assert.Equal(t, "[REDACTED]", s.LogValue().String())
}

func TestWithSecret_ScrubsOnSuccess(t *testing.T) {
	buf := []byte("Deadlift2024")

	got, err := WithSecret(buf, func(b []byte) (int, error) {
		return len(b), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 12, got)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestWithSecret_ScrubsOnError(t *testing.T) {
	buf := []byte("Deadlift2024")

	_, err := WithSecret(buf, func(b []byte) (string, error) {
		return "", errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, make([]byte, 12), buf)
}

func TestWithSecret_ScrubsOnPanic(t *testing.T) {
	buf := []byte("Deadlift2024")

	assert.Panics(t, func() {
		_, _ = WithSecret(buf, func(b []byte) (string, error) {
			panic("credential store exploded")
		})
	})
	assert.Equal(t, make([]byte, 12), buf)
}

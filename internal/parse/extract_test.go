package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "whole text is an object",
			in:   `{"score": 15, "feedback": "solid"}`,
			want: `{"score": 15, "feedback": "solid"}`,
			ok:   true,
		},
		{
			name: "object surrounded by prose",
			in:   `Here you go: {"score": 12} hope that helps`,
			want: `{"score": 12}`,
			ok:   true,
		},
		{
			name: "nested object",
			in:   `Result: {"score": 10, "breakdown": {"question1": 5, "question2": 5}} done`,
			want: `{"score": 10, "breakdown": {"question1": 5, "question2": 5}}`,
			ok:   true,
		},
		{
			name: "braces inside string values",
			in:   `{"feedback": "watch the {braces} here", "score": 8}`,
			want: `{"feedback": "watch the {braces} here", "score": 8}`,
			ok:   true,
		},
		{
			name: "escaped quotes inside strings",
			in:   `reply {"feedback": "he said \"ok\"", "score": 7} end`,
			want: `{"feedback": "he said \"ok\"", "score": 7}`,
			ok:   true,
		},
		{
			name: "first candidate invalid second valid",
			in:   `{not json} but then {"score": 5}`,
			want: `{"score": 5}`,
			ok:   true,
		},
		{
			name: "no braces at all",
			in:   "the score is fifteen",
			ok:   false,
		},
		{
			name: "braces but nothing parses",
			in:   "set {x := 1} and {y := 2}",
			ok:   false,
		},
		{
			name: "bare array is not a grade object",
			in:   `[1, 2, 3]`,
			ok:   false,
		},
		{
			name: "empty input",
			in:   "",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

// The extracted span must parse to the same value as the object embedded
// in the prose.
func TestExtractJSONRoundTrip(t *testing.T) {
	embedded := map[string]any{
		"score":        15.0,
		"feedback":     "Good work overall.",
		"improvements": []any{"Add comments"},
		"breakdown":    map[string]any{"question1": 8.0},
	}
	raw, err := json.Marshal(embedded)
	require.NoError(t, err)

	in := "Sure! Here is the grade you asked for:\n" + string(raw) + "\nLet me know if you need more."
	got, ok := ExtractJSON(in)
	require.True(t, ok)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	require.Equal(t, embedded, parsed)
}

func TestMatchBrace(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		start int
		want  int
	}{
		{name: "flat", in: `{"a": 1}`, start: 0, want: 7},
		{name: "nested", in: `{"a": {"b": 2}}`, start: 0, want: 14},
		{name: "inner object", in: `{"a": {"b": 2}}`, start: 6, want: 13},
		{name: "brace in string ignored", in: `{"a": "}"}`, start: 0, want: 9},
		{name: "unbalanced", in: `{"a": 1`, start: 0, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, matchBrace(tt.in, tt.start))
		})
	}
}

func TestBoundedSpans(t *testing.T) {
	// Spans must end at a closing brace followed by whitespace or the end
	// of the text.
	spans := boundedSpans(`a {"x": 1} b {"y": 2}`)
	require.Equal(t, []string{`{"x": 1}`, `{"y": 2}`}, spans)

	require.Empty(t, boundedSpans("no braces"))
}

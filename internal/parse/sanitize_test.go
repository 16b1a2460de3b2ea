package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fence with json tag",
			in:   "```json\n{\"score\": 15}\n```",
			want: "{\"score\": 15}",
		},
		{
			name: "fence without tag",
			in:   "```\n{\"score\": 15}\n```",
			want: "{\"score\": 15}",
		},
		{
			name: "fence without newline after tag",
			in:   "```json{\"score\": 15}```",
			want: "{\"score\": 15}",
		},
		{
			name: "line comments removed",
			in:   "{\n// the total\n\"score\": 12\n}",
			want: "{\n\"score\": 12\n}",
		},
		{
			name: "block comment removed",
			in:   "{\"score\": 12 /* out of 20 */}",
			want: "{\"score\": 12 }",
		},
		{
			name: "multiline block comment removed",
			in:   "{/* grading\nnotes */\"score\": 3}",
			want: "{\"score\": 3}",
		},
		{
			name: "plain text untouched",
			in:   "The score is 15 out of 20.",
			want: "The score is 15 out of 20.",
		},
		{
			name: "whitespace trimmed",
			in:   "  \n {\"score\": 1} \t\n",
			want: "{\"score\": 1}",
		},
		{
			name: "fence wrapped in prose",
			in:   "Here is the grade:\n```json\n{\"score\": 9}\n```\nDone.",
			want: "Here is the grade:\n{\"score\": 9}\n\nDone.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"score\": 15}\n```",
		"{\"score\": 12 /* note */} // done\n",
		"no markup at all",
		"  padded  ",
		"",
		"```json{\"a\":1}``` and ```{\"b\":2}```",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		require.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

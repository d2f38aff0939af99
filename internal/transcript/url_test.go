package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch?v=aYK0H85E_oU", "aYK0H85E_oU"},
		{"https://www.youtube.com/watch?v=aYK0H85E_oU&t=120s", "aYK0H85E_oU"},
		{"https://youtu.be/aYK0H85E_oU", "aYK0H85E_oU"},
		{"https://youtu.be/aYK0H85E_oU?si=xyz", "aYK0H85E_oU"},
		{"aYK0H85E_oU", "aYK0H85E_oU"},
	}
	for _, tc := range cases {
		got, err := ExtractVideoID(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"https://www.youtube.com/watch?v=",
		"https://youtu.be/",
		"https://vimeo.com/12345",
	} {
		if _, err := ExtractVideoID(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

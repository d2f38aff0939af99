package timefmt

import "testing"

func TestFormatSeconds(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00:00",
		5.5:    "0:00:05",
		59:     "0:00:59",
		60:     "0:01:00",
		125:    "0:02:05",
		3725:   "1:02:05",
		3599.9: "0:59:59",
		86400:  "24:00:00",
	}
	for input, want := range cases {
		if got := FormatSeconds(input); got != want {
			t.Fatalf("FormatSeconds(%v) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatSeconds_NegativeClampsToZero(t *testing.T) {
	if got := FormatSeconds(-3); got != "0:00:00" {
		t.Fatalf("unexpected value for negative input: %s", got)
	}
}

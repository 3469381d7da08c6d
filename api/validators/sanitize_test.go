package validators

import "testing"

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"  hello  ", 0, "hello"},
		{"hello", 3, "hel"},
		{"   ", 10, ""},
		{"olvidé fichar", 100, "olvidé fichar"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

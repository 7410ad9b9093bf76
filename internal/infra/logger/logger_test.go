package logger

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"alice.smith@example.com", "ali***@example.com"},
		{"al@example.com", "al***@example.com"},
		{"not-an-email", "***"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := MaskEmail(tc.input); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"192.168.10.42", "192.168.*.*"},
		{"2001:db8:85a3:8d3:1319:8a2e:370:7348", "2001:db8:85a3:8d3:*:*:*:*"},
		{"garbage", "***"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := MaskIP(tc.input); got != tc.want {
			t.Errorf("MaskIP(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

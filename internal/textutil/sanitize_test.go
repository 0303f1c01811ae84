package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "session.webm", "session.webm"},
		{"path separators", "usability/round one.webm", "usability-round one.webm"},
		{"windows characters", `take:2*final?.webm`, "take-2-final.webm"},
		{"quotes and angles", `"<interview>".webm`, "interview.webm"},
		{"whitespace", "  padded.webm  ", "padded.webm"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileName(tc.in); got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

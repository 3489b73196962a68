package domain

import "testing"

func TestNormalizeLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Text input", "Text input"},
		{"Example range ", "Example range"},
		{"Dropdown (select)\nOpen this select menu\nOne\nTwo", "Dropdown (select)"},
		{"\n  Color picker\n", "Color picker"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeLabel(tc.in); got != tc.want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWebFormURL(t *testing.T) {
	if got := WebFormURL(""); got != "https://bonigarcia.dev/selenium-webdriver-java/web-form.html" {
		t.Fatalf("unexpected default url %q", got)
	}
	if got := WebFormURL("http://localhost:8080/"); got != "http://localhost:8080/web-form.html" {
		t.Fatalf("unexpected url %q", got)
	}
}

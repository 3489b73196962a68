package domain

import "testing"

func TestGetSetVars(t *testing.T) {
	vars := Vars{}

	vars = Set(vars, "login", "alice")
	got, ok := Get(vars, "login")
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if got != "alice" {
		t.Fatalf("expected value %q, got %q", "alice", got)
	}

	if _, ok := Get(vars, "missing"); ok {
		t.Fatalf("expected missing key to be absent")
	}
}

func TestMergeVars(t *testing.T) {
	base := Vars{
		"baseUrl": "https://example.com/",
		"login":   "base",
	}
	override := Vars{
		"login":    "override",
		"password": "pw",
	}

	merged := Merge(base, override)

	if merged["baseUrl"] != "https://example.com/" {
		t.Fatalf("expected base value to remain")
	}
	if merged["login"] != "override" {
		t.Fatalf("expected override value to win")
	}
	if merged["password"] != "pw" {
		t.Fatalf("expected new override key to be present")
	}

	if base["login"] != "base" {
		t.Fatalf("expected base to remain unchanged")
	}
}

func TestSettingsGetMissing(t *testing.T) {
	s := NewSettings("dev", Vars{"login": "alice"})

	if v, err := s.Get("login"); err != nil || v != "alice" {
		t.Fatalf("expected login=alice, got %q err=%v", v, err)
	}

	_, err := s.Get("password")
	if err == nil {
		t.Fatalf("expected missing config error")
	}
	if !IsKind(err, KindMissingConfig) {
		t.Fatalf("expected missing_config kind, got %v", err)
	}
}

func TestSettingsRequireReportsAllMissing(t *testing.T) {
	s := NewSettings("dev", Vars{"login": "alice"})

	err := s.Require(RequiredKeys...)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindMissingConfig) {
		t.Fatalf("expected missing_config kind, got %v", err)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Fatalf("expected 2 missing keys, got %d", n)
	}
}

func TestSettingsImmutableCopy(t *testing.T) {
	in := Vars{"login": "alice"}
	s := NewSettings("dev", in)
	in["login"] = "mallory"

	if s.Login() != "alice" {
		t.Fatalf("expected settings to keep original value, got %q", s.Login())
	}

	out := s.Vars()
	out["login"] = "eve"
	if s.Login() != "alice" {
		t.Fatalf("expected Vars() to return a copy")
	}
}

func TestSettingsBaseURLTrailingSlash(t *testing.T) {
	s := NewSettings("dev", Vars{KeyBaseURL: "https://bonigarcia.dev/selenium-webdriver-java"})
	if got := s.BaseURL(); got != "https://bonigarcia.dev/selenium-webdriver-java/" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestSettingsMasked(t *testing.T) {
	s := NewSettings("dev", Vars{"login": "alice", "password": "s3cr3t", "apiToken": "t"})
	m := s.Masked("***")

	if m["login"] != "alice" {
		t.Fatalf("expected login to stay visible")
	}
	if m["password"] != "***" || m["apiToken"] != "***" {
		t.Fatalf("expected sensitive keys masked, got %v", m)
	}
	if s.Password() != "s3cr3t" {
		t.Fatalf("expected original settings untouched")
	}
}

func TestSettingsKeysSorted(t *testing.T) {
	s := NewSettings("dev", Vars{"password": "x", "baseUrl": "y", "login": "z"})
	keys := s.Keys()
	want := []string{"baseUrl", "login", "password"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

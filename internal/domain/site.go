package domain

import "strings"

// Paths of the practice site, relative to the configured base URL.
const (
	DefaultBaseURL    = "https://bonigarcia.dev/selenium-webdriver-java/"
	WebFormPath       = "web-form.html"
	IndexPath         = "index.html"
	SubmittedFormPath = "submitted-form.html"

	RepositoryURL = "https://github.com/bonigarcia/selenium-webdriver-java"
	AuthorURL     = "https://bonigarcia.dev/"
)

// WebFormURL is the fixed target of every scenario.
func WebFormURL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return baseURL + WebFormPath
}

// Toggle names a checkable control on the form.
type Toggle string

const (
	CheckedCheckbox Toggle = "checked-checkbox"
	DefaultCheckbox Toggle = "default-checkbox"
	CheckedRadio    Toggle = "checked-radio"
	DefaultRadio    Toggle = "default-radio"
)

// IconInfo describes the rendered header icon.
type IconInfo struct {
	Visible bool
	Width   int
	Height  int
}

// InputState describes a non-editable input on the form.
type InputState struct {
	Enabled     bool
	Editable    bool
	Value       string
	Placeholder string
	Label       string
}

// SelectedOption is the current choice of a select element.
type SelectedOption struct {
	Value string
	Label string
}

// NormalizeLabel reduces a rendered label to its caption: the first
// non-empty line, trimmed. Labels wrapping a select also render the options.
func NormalizeLabel(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

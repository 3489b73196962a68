// Package fakeweb is an in-memory stand-in for the practice site.
// It mirrors the observable behavior of the web form closely enough to run
// the scenario catalog without a browser.
package fakeweb

// Content is the static text the simulated site renders.
type Content struct {
	Heading     string
	Subtitle    string
	FormTitle   string
	IconWidth   int
	IconHeight  int
	FieldLabels []string
	CheckLabels []string
	Copyright   string
	Submitted   string

	InitialColor  string
	InitialSelect string
	InitialRange  int
	ReadonlyValue string
	DisabledHint  string
}

// DefaultContent matches the live page.
func DefaultContent() Content {
	return Content{
		Heading:   "Hands-On Selenium WebDriver with Java",
		Subtitle:  "Practice site",
		FormTitle: "Web form",
		IconWidth: 80, IconHeight: 80,
		FieldLabels: []string{
			"Text input", "Password", "Textarea", "Disabled input", "Readonly input",
			"Dropdown (select)", "Dropdown (datalist)", "File input",
			"Color picker", "Date picker", "Example range",
		},
		CheckLabels:   []string{"Checked checkbox", "Default checkbox", "Checked radio", "Default radio"},
		Copyright:     "Copyright © 2021-2025 Boni García",
		Submitted:     "Form submitted",
		InitialColor:  "#563d7c",
		InitialSelect: "Open this select menu",
		InitialRange:  5,
		ReadonlyValue: "Readonly input",
		DisabledHint:  "Disabled input",
	}
}

// Drifted is DefaultContent after an upstream redesign.
func Drifted() Content {
	c := DefaultContent()
	c.Heading = "Hands-On Selenium WebDriver with Java, 2nd edition"
	c.IconWidth = 64
	c.Copyright = "© Boni García"
	c.FieldLabels[0] = "Text"
	return c
}

var selectOptions = []struct{ value, label string }{
	{"1", "One"},
	{"2", "Two"},
	{"3", "Three"},
}

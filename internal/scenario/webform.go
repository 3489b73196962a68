package scenario

import (
	"context"
	"iter"
	"net/url"
	"path/filepath"
	"regexp"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/stretchr/testify/assert"
)

// UploadFileName is the attachment used by the file input scenario.
const UploadFileName = "STE In Banner.jpg"

// BigText fills the textarea.
const BigText = "Lorem ipsum dolor sit amet consectetur adipiscing elit habitant metus, " +
	"tincidunt maecenas posuere sollicitudin augue duis bibendum mauris eu, et dignissim magna ad nascetur suspendisse quis nunc. " +
	"Fames est ligula molestie aliquam pretium bibendum nullam, sociosqu maecenas mus etiam consequat ornare leo, sem mattis " +
	"varius luctus litora senectus. Parturient quis tristique erat natoque tortor nascetur, primis augue vivamus habitasse " +
	"senectus porta leo, aenean potenti ante a nam."

const (
	dropdownPrompt = "Open this select menu"
	pickedDate     = "05/05/2025"
)

var (
	fieldLabels = []string{
		"Text input", "Password", "Textarea", "Disabled input", "Readonly input",
		"Dropdown (select)", "Dropdown (datalist)", "File input",
		"Color picker", "Date picker", "Example range",
	}
	checkLabels = []string{"Checked checkbox", "Default checkbox", "Checked radio", "Default radio"}

	selectLabels = []string{"One", "Two", "Three"}
	selectValues = []string{"1", "2", "3"}
	cities       = []string{"San Francisco", "New York", "Seattle", "Los Angeles", "Chicago"}

	copyrightPattern = regexp.MustCompile(`^Copyright © 2021-\d{4} Boni García$`)
)

// WebForm returns the full catalog in execution order.
func WebForm() iter.Seq[Scenario] {
	return Concat(
		Single(Scenario{Name: "heading title", Order: 1,
			Assert: textIs("heading", "Hands-On Selenium WebDriver with Java", heading)}),
		Single(Scenario{Name: "subtitle", Order: 2,
			Assert: textIs("subtitle", "Practice site", subtitle)}),
		Single(Scenario{Name: "header icon", Order: 3, Brittle: true,
			Assert: assertIcon}),
		Single(Scenario{Name: "web form title", Order: 4,
			Assert: textIs("form title", "Web form", formTitle)}),
		Single(Scenario{Name: "field names", Order: 5,
			Assert: assertLabels}),
		Single(Scenario{Name: "login field", Order: 6,
			Act:    viaHome(inputLogin),
			Assert: assertLogin}),
		Single(Scenario{Name: "clear login field", Order: 7,
			Act:    viaHome(inputLogin, clearLogin),
			Assert: valueEmpty("login", loginValue)}),
		Single(Scenario{Name: "password field", Order: 8,
			Act:    viaHome(inputPassword),
			Assert: valueNotEmpty("password", passwordValue)}),
		Single(Scenario{Name: "clear password field", Order: 9,
			Act:    viaHome(inputPassword, clearPassword),
			Assert: valueEmpty("password", passwordValue)}),
		Single(Scenario{Name: "textarea", Order: 10,
			Act:    fillTextarea,
			Assert: textIs("textarea", BigText, textareaValue)}),
		Single(Scenario{Name: "clear textarea", Order: 11,
			Act:    seq(fillTextarea, clearTextarea),
			Assert: valueEmpty("textarea", textareaValue)}),
		Single(Scenario{Name: "disabled input", Order: 12,
			Assert: assertDisabled}),
		Single(Scenario{Name: "readonly input", Order: 13,
			Act:    typeReadonly,
			Assert: assertReadonly}),
		Expand(Template{Name: "dropdown select by visible text", Order: 14,
			Act: selectBy(true), Assert: assertSelected(true)}, selectLabels...),
		Expand(Template{Name: "dropdown select by value", Order: 15,
			Act: selectBy(false), Assert: assertSelected(false)}, selectValues...),
		Expand(Template{Name: "dropdown datalist", Order: 16,
			Act: fillDatalist, Assert: assertDatalist}, cities...),
		Single(Scenario{Name: "file input", Order: 17,
			Act:    uploadAndSubmit,
			Assert: assertUploaded}),
		Single(Scenario{Name: "checked checkbox", Order: 18,
			Act:    flip(domain.CheckedCheckbox, true),
			Assert: checked(domain.CheckedCheckbox, false)}),
		Single(Scenario{Name: "default checkbox", Order: 19,
			Act:    flip(domain.DefaultCheckbox, false),
			Assert: checked(domain.DefaultCheckbox, true)}),
		Single(Scenario{Name: "radio buttons", Order: 20,
			Act:    pickDefaultRadio,
			Assert: seq(checked(domain.CheckedRadio, false), checked(domain.DefaultRadio, true))}),
		Single(Scenario{Name: "color picker", Order: 21,
			Act:    setGreen,
			Assert: assertGreen}),
		Single(Scenario{Name: "date picker", Order: 22,
			Act:    fillDate,
			Assert: textIs("date", pickedDate, dateValue)}),
		Single(Scenario{Name: "example range", Order: 23,
			Act:    dragRange,
			Assert: textIs("range", "10", rangeValue)}),
		Single(Scenario{Name: "return to index link", Order: 24,
			Act:    returnToIndex,
			Assert: urlIs(func(e *Env) string { return e.Settings.BaseURL() + domain.IndexPath })}),
		Single(Scenario{Name: "copyright link", Order: 25,
			Act:    openCopyright,
			Assert: urlIs(func(*Env) string { return domain.AuthorURL })}),
		Single(Scenario{Name: "copyright text", Order: 26, Brittle: true,
			Assert: assertCopyright}),
		Single(Scenario{Name: "submit button", Order: 27,
			Act:    viaHome(submit),
			Assert: assertSubmitted}),
	)
}

type textFn func(ctx context.Context) (string, error)

// Readers resolve e.Form at call time; viaHome may replace it.
var (
	heading       = func(e *Env) textFn { return e.Form.Heading }
	subtitle      = func(e *Env) textFn { return e.Form.Subtitle }
	formTitle     = func(e *Env) textFn { return e.Form.FormTitle }
	loginValue    = func(e *Env) textFn { return e.Form.LoginValue }
	passwordValue = func(e *Env) textFn { return e.Form.PasswordValue }
	textareaValue = func(e *Env) textFn { return e.Form.TextareaValue }
	dateValue     = func(e *Env) textFn { return e.Form.DateValue }
	rangeValue    = func(e *Env) textFn { return e.Form.RangeValue }
	datalistValue = func(e *Env) textFn { return e.Form.DatalistValue }
)

func seq(steps ...Step) Step {
	return func(ctx context.Context, e *Env) error {
		for _, s := range steps {
			if err := s(ctx, e); err != nil {
				return err
			}
		}
		return nil
	}
}

// viaHome reaches the form from the site index before running steps.
func viaHome(steps ...Step) Step {
	return func(ctx context.Context, e *Env) error {
		if err := e.Home.Open(ctx); err != nil {
			return err
		}
		form, err := e.Home.OpenWebForm(ctx)
		if err != nil {
			return err
		}
		e.Form = form
		return seq(steps...)(ctx, e)
	}
}

func textIs(name, want string, pick func(e *Env) textFn) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := pick(e)(ctx)
		if err != nil {
			return err
		}
		e.Check.Equal(name, want, got)
		return nil
	}
}

func valueEmpty(name string, pick func(e *Env) textFn) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := pick(e)(ctx)
		if err != nil {
			return err
		}
		e.Check.Empty(name+" is empty", got)
		return nil
	}
}

func valueNotEmpty(name string, pick func(e *Env) textFn) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := pick(e)(ctx)
		if err != nil {
			return err
		}
		e.Check.NotEmpty(name+" is not empty", got)
		return nil
	}
}

func urlIs(want func(e *Env) string) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := e.URL(ctx)
		if err != nil {
			return err
		}
		e.Check.Equal("url", want(e), got)
		return nil
	}
}

func assertIcon(ctx context.Context, e *Env) error {
	info, err := e.Form.IconInfo(ctx)
	if err != nil {
		return err
	}
	e.Check.True("icon visible", info.Visible)
	e.Check.Equal("icon width", 80, info.Width)

	if err := e.Form.ClickIcon(ctx); err != nil {
		return err
	}
	return urlIs(func(*Env) string { return domain.RepositoryURL })(ctx, e)
}

func assertLabels(ctx context.Context, e *Env) error {
	fields, err := e.Form.FieldLabels(ctx)
	if err != nil {
		return err
	}
	checks, err := e.Form.CheckLabels(ctx)
	if err != nil {
		return err
	}
	e.Check.Equal("field labels", fieldLabels, fields)
	e.Check.Equal("check labels", checkLabels, checks)
	return nil
}

func inputLogin(ctx context.Context, e *Env) error {
	return e.Form.InputLogin(ctx, e.Settings.Login())
}

func clearLogin(ctx context.Context, e *Env) error { return e.Form.ClearTextValue(ctx) }

func inputPassword(ctx context.Context, e *Env) error {
	return e.Form.InputPassword(ctx, e.Settings.Password())
}

func clearPassword(ctx context.Context, e *Env) error { return e.Form.ClearPasswordValue(ctx) }

func submit(ctx context.Context, e *Env) error { return e.Form.Submit(ctx) }

func returnToIndex(ctx context.Context, e *Env) error { return e.Form.ReturnToIndex(ctx) }

func openCopyright(ctx context.Context, e *Env) error { return e.Form.OpenCopyrightLink(ctx) }

func assertLogin(ctx context.Context, e *Env) error {
	got, err := e.Form.LoginValue(ctx)
	if err != nil {
		return err
	}
	e.Check.NotEmpty("login is not empty", got)
	e.Check.Equal("login", e.Settings.Login(), got)
	return nil
}

func fillTextarea(ctx context.Context, e *Env) error { return e.Form.FillTextarea(ctx, BigText) }

func clearTextarea(ctx context.Context, e *Env) error { return e.Form.ClearTextarea(ctx) }

func assertDisabled(ctx context.Context, e *Env) error {
	st, err := e.Form.DisabledInput(ctx)
	if err != nil {
		return err
	}
	e.Check.False("disabled input is not enabled", st.Enabled)
	e.Check.Contains("disabled placeholder", st.Placeholder, "Disabled input")
	e.Check.Equal("disabled label", "Disabled input", st.Label)
	return nil
}

func typeReadonly(ctx context.Context, e *Env) error {
	return e.Form.TypeIntoReadonly(ctx, "test string")
}

func assertReadonly(ctx context.Context, e *Env) error {
	st, err := e.Form.ReadonlyInput(ctx)
	if err != nil {
		return err
	}
	e.Check.True("readonly input is enabled", st.Enabled)
	e.Check.False("readonly input is not editable", st.Editable)
	e.Check.Equal("readonly value", "Readonly input", st.Value)
	e.Check.Equal("readonly label", "Readonly input", st.Label)
	return nil
}

// selectBy checks the untouched prompt first, then picks the option.
func selectBy(byLabel bool) func(v string) Step {
	return func(v string) Step {
		return func(ctx context.Context, e *Env) error {
			opt, err := e.Form.SelectedOption(ctx)
			if err != nil {
				return err
			}
			e.Check.Equal("initial selection", dropdownPrompt, opt.Label)
			if byLabel {
				return e.Form.SelectByLabel(ctx, v)
			}
			return e.Form.SelectByValue(ctx, v)
		}
	}
}

func assertSelected(byLabel bool) func(v string) Step {
	return func(v string) Step {
		return func(ctx context.Context, e *Env) error {
			opt, err := e.Form.SelectedOption(ctx)
			if err != nil {
				return err
			}
			if byLabel {
				e.Check.Equal("selected label", v, opt.Label)
			} else {
				e.Check.Equal("selected value", v, opt.Value)
			}
			return nil
		}
	}
}

func fillDatalist(v string) Step {
	return func(ctx context.Context, e *Env) error { return e.Form.FillDatalist(ctx, v) }
}

func assertDatalist(v string) Step {
	return textIs("datalist", v, datalistValue)
}

func uploadAndSubmit(ctx context.Context, e *Env) error {
	path, err := e.UploadFile()
	if err != nil {
		return err
	}
	if err := e.Form.UploadFile(ctx, path); err != nil {
		return err
	}
	return e.Form.Submit(ctx)
}

func assertUploaded(ctx context.Context, e *Env) error {
	path, err := e.UploadFile()
	if err != nil {
		return err
	}
	got, err := e.URL(ctx)
	if err != nil {
		return err
	}
	e.Check.Contains("url carries file name", got, url.QueryEscape(filepath.Base(path)))
	return nil
}

func flip(t domain.Toggle, initial bool) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := e.Form.IsChecked(ctx, t)
		if err != nil {
			return err
		}
		e.Check.Equal(string(t)+" initial state", initial, got)
		return e.Form.Toggle(ctx, t)
	}
}

func checked(t domain.Toggle, want bool) Step {
	return func(ctx context.Context, e *Env) error {
		got, err := e.Form.IsChecked(ctx, t)
		if err != nil {
			return err
		}
		e.Check.Equal(string(t)+" state", want, got)
		return nil
	}
}

func pickDefaultRadio(ctx context.Context, e *Env) error {
	if err := checked(domain.CheckedRadio, true)(ctx, e); err != nil {
		return err
	}
	if err := checked(domain.DefaultRadio, false)(ctx, e); err != nil {
		return err
	}
	return e.Form.Toggle(ctx, domain.DefaultRadio)
}

var green = domain.RGB(0, 255, 0)

// setGreen remembers the initial color for the assertion phase.
func setGreen(ctx context.Context, e *Env) error {
	initial, err := e.Form.ColorValue(ctx)
	if err != nil {
		return err
	}
	e.Memo["initial color"] = initial
	return e.Form.SetColor(ctx, green.Hex())
}

func assertGreen(ctx context.Context, e *Env) error {
	got, err := e.Form.ColorValue(ctx)
	if err != nil {
		return err
	}
	initial := e.Memo["initial color"]
	e.Check.NotEqual("color changed", initial, got)

	e.Check.That("color is green", func(t assert.TestingT) bool {
		c, err := domain.ParseColor(got)
		if !assert.NoError(t, err) {
			return false
		}
		return assert.True(t, c.Equal(green), "got %s, want %s", c, green)
	})
	return nil
}

func fillDate(ctx context.Context, e *Env) error { return e.Form.FillDate(ctx, pickedDate) }

// dragRange clicks the slider from its middle to its right end.
func dragRange(ctx context.Context, e *Env) error {
	for i := 5; i <= 10; i++ {
		if err := e.Form.ClickRange(ctx, float64(i)/10); err != nil {
			return err
		}
	}
	return nil
}

func assertCopyright(ctx context.Context, e *Env) error {
	got, err := e.Form.CopyrightText(ctx)
	if err != nil {
		return err
	}
	e.Check.Regexp("copyright", copyrightPattern, got)
	return nil
}

func assertSubmitted(ctx context.Context, e *Env) error {
	got, err := e.URL(ctx)
	if err != nil {
		return err
	}
	e.Check.Contains("url", got, e.Settings.BaseURL()+domain.SubmittedFormPath)

	h, err := e.Submitted.Heading(ctx)
	if err != nil {
		return err
	}
	e.Check.Equal("submitted heading", "Form submitted", h)
	return nil
}

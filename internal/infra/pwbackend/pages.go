package pwbackend

import (
	"context"
	"fmt"
	"math"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/playwright-community/playwright-go"
)

// Selectors for the web form. Locators are built eagerly from these and
// resolved by playwright at action time.
const (
	selHeading       = ".display-4"
	selSubtitle      = "h5"
	selFormTitle     = ".display-6"
	selIcon          = "xpath=//img[@src = 'img/hands-on-icon.png']"
	selFieldLabels   = ".form-label.w-100"
	selCheckLabels   = ".form-check-label.w-100"
	selLogin         = "#my-text-id"
	selPassword      = "css=[name='my-password']"
	selTextarea      = "css=[name='my-textarea']"
	selDisabled      = "css=[name='my-disabled']"
	selReadonly      = "css=[name='my-readonly']"
	selSelect        = "css=[name='my-select']"
	selDatalist      = "css=[name='my-datalist']"
	selFile          = "css=input[name='my-file']"
	selColor         = "css=[name='my-colors']"
	selDate          = "css=[name='my-date']"
	selRange         = "css=[name='my-range']"
	selIndexLink     = "xpath=//a[@href = './index.html']"
	selCopyrightLink = "xpath=//a[@href = 'https://bonigarcia.dev/']"
	selCopyright     = "xpath=//span[@class = 'text-muted' and starts-with(normalize-space(.), 'Copyright')]"
	selSubmitted     = "xpath=//h1[@class = 'display-6']"
	selParent        = "xpath=.."
	selWebFormLink   = "xpath=//a[normalize-space(text()) = 'Web form']"
)

var toggleSelectors = map[domain.Toggle]string{
	domain.CheckedCheckbox: "#my-check-1",
	domain.DefaultCheckbox: "#my-check-2",
	domain.CheckedRadio:    "#my-radio-1",
	domain.DefaultRadio:    "#my-radio-2",
}

const selectedOptionJS = `el => ({ value: el.value, label: el.selectedIndex >= 0 ? el.options[el.selectedIndex].text : "" })`

type homePage struct{ s *Session }

var _ ports.HomePage = (*homePage)(nil)

func (h *homePage) Open(ctx context.Context) error {
	return h.s.Navigate(ctx, h.s.baseURL)
}

func (h *homePage) OpenWebForm(ctx context.Context) (ports.WebForm, error) {
	if err := h.s.guard(ctx, "open_web_form"); err != nil {
		return nil, err
	}
	if err := h.s.page.Locator(selWebFormLink).Click(); err != nil {
		return nil, wrap("open_web_form", selWebFormLink, err)
	}
	if err := h.s.page.WaitForURL("**/" + domain.WebFormPath); err != nil {
		return nil, wrap("open_web_form", domain.WebFormPath, err)
	}
	return newWebForm(h.s), nil
}

type webForm struct {
	s *Session

	heading, subtitle, formTitle, icon playwright.Locator
	fieldLabels, checkLabels           playwright.Locator
	login, password, textarea          playwright.Locator
	disabled, readonly                 playwright.Locator
	sel, datalist, file, submit        playwright.Locator
	color, date, rng                   playwright.Locator
	indexLink, copyrightLink           playwright.Locator
	copyright                          playwright.Locator
	toggles                            map[domain.Toggle]playwright.Locator
}

var _ ports.WebForm = (*webForm)(nil)

func newWebForm(s *Session) *webForm {
	p := s.page
	w := &webForm{
		s:             s,
		heading:       p.Locator(selHeading),
		subtitle:      p.Locator(selSubtitle),
		formTitle:     p.Locator(selFormTitle),
		icon:          p.Locator(selIcon),
		fieldLabels:   p.Locator(selFieldLabels),
		checkLabels:   p.Locator(selCheckLabels),
		login:         p.Locator(selLogin),
		password:      p.Locator(selPassword),
		textarea:      p.Locator(selTextarea),
		disabled:      p.Locator(selDisabled),
		readonly:      p.Locator(selReadonly),
		sel:           p.Locator(selSelect),
		datalist:      p.Locator(selDatalist),
		file:          p.Locator(selFile),
		submit:        p.GetByText("Submit"),
		color:         p.Locator(selColor),
		date:          p.Locator(selDate),
		rng:           p.Locator(selRange),
		indexLink:     p.Locator(selIndexLink),
		copyrightLink: p.Locator(selCopyrightLink),
		copyright:     p.Locator(selCopyright),
		toggles:       make(map[domain.Toggle]playwright.Locator, len(toggleSelectors)),
	}
	for t, sel := range toggleSelectors {
		w.toggles[t] = p.Locator(sel)
	}
	return w
}

func (w *webForm) innerText(ctx context.Context, op, sel string, l playwright.Locator) (string, error) {
	if err := w.s.guard(ctx, op); err != nil {
		return "", err
	}
	v, err := l.InnerText()
	return v, wrap(op, sel, err)
}

func (w *webForm) inputValue(ctx context.Context, op, sel string, l playwright.Locator) (string, error) {
	if err := w.s.guard(ctx, op); err != nil {
		return "", err
	}
	v, err := l.InputValue()
	return v, wrap(op, sel, err)
}

func (w *webForm) do(ctx context.Context, op, sel string, fn func() error) error {
	if err := w.s.guard(ctx, op); err != nil {
		return err
	}
	return wrap(op, sel, fn())
}

// clickAndWait clicks a link and waits until the page reaches urlGlob.
func (w *webForm) clickAndWait(ctx context.Context, op, sel string, l playwright.Locator, urlGlob string) error {
	return w.do(ctx, op, sel, func() error {
		if err := l.Click(); err != nil {
			return err
		}
		return w.s.page.WaitForURL(urlGlob)
	})
}

func (w *webForm) Heading(ctx context.Context) (string, error) {
	return w.innerText(ctx, "heading", selHeading, w.heading)
}

func (w *webForm) Subtitle(ctx context.Context) (string, error) {
	return w.innerText(ctx, "subtitle", selSubtitle, w.subtitle)
}

func (w *webForm) FormTitle(ctx context.Context) (string, error) {
	return w.innerText(ctx, "form_title", selFormTitle, w.formTitle)
}

func (w *webForm) IconInfo(ctx context.Context) (domain.IconInfo, error) {
	var info domain.IconInfo
	err := w.do(ctx, "icon", selIcon, func() error {
		visible, err := w.icon.IsVisible()
		if err != nil {
			return err
		}
		box, err := w.icon.BoundingBox()
		if err != nil {
			return err
		}
		info.Visible = visible
		if box != nil {
			info.Width = int(math.Round(box.Width))
			info.Height = int(math.Round(box.Height))
		}
		return nil
	})
	return info, err
}

func (w *webForm) ClickIcon(ctx context.Context) error {
	return w.clickAndWait(ctx, "click_icon", selIcon, w.icon, domain.RepositoryURL)
}

func (w *webForm) labels(ctx context.Context, op, sel string, l playwright.Locator) ([]string, error) {
	var out []string
	err := w.do(ctx, op, sel, func() error {
		texts, err := l.AllInnerTexts()
		if err != nil {
			return err
		}
		out = make([]string, 0, len(texts))
		for _, t := range texts {
			out = append(out, domain.NormalizeLabel(t))
		}
		return nil
	})
	return out, err
}

func (w *webForm) FieldLabels(ctx context.Context) ([]string, error) {
	return w.labels(ctx, "field_labels", selFieldLabels, w.fieldLabels)
}

func (w *webForm) CheckLabels(ctx context.Context) ([]string, error) {
	return w.labels(ctx, "check_labels", selCheckLabels, w.checkLabels)
}

func (w *webForm) InputLogin(ctx context.Context, login string) error {
	return w.do(ctx, "input_login", selLogin, func() error { return w.login.Fill(login) })
}

func (w *webForm) LoginValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "login_value", selLogin, w.login)
}

func (w *webForm) ClearTextValue(ctx context.Context) error {
	return w.do(ctx, "clear_login", selLogin, func() error { return w.login.Clear() })
}

func (w *webForm) InputPassword(ctx context.Context, password string) error {
	return w.do(ctx, "input_password", selPassword, func() error { return w.password.Fill(password) })
}

func (w *webForm) PasswordValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "password_value", selPassword, w.password)
}

func (w *webForm) ClearPasswordValue(ctx context.Context) error {
	return w.do(ctx, "clear_password", selPassword, func() error { return w.password.Clear() })
}

func (w *webForm) FillTextarea(ctx context.Context, text string) error {
	return w.do(ctx, "fill_textarea", selTextarea, func() error { return w.textarea.Fill(text) })
}

func (w *webForm) TextareaValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "textarea_value", selTextarea, w.textarea)
}

func (w *webForm) ClearTextarea(ctx context.Context) error {
	return w.do(ctx, "clear_textarea", selTextarea, func() error { return w.textarea.Clear() })
}

func (w *webForm) inputState(ctx context.Context, op, sel string, l playwright.Locator) (domain.InputState, error) {
	var st domain.InputState
	err := w.do(ctx, op, sel, func() error {
		var err error
		if st.Enabled, err = l.IsEnabled(); err != nil {
			return err
		}
		if st.Editable, err = l.IsEditable(); err != nil {
			return err
		}
		if st.Value, err = l.InputValue(); err != nil {
			return err
		}
		if st.Placeholder, err = l.GetAttribute("placeholder"); err != nil {
			return err
		}
		label, err := l.Locator(selParent).InnerText()
		if err != nil {
			return err
		}
		st.Label = domain.NormalizeLabel(label)
		return nil
	})
	return st, err
}

func (w *webForm) DisabledInput(ctx context.Context) (domain.InputState, error) {
	return w.inputState(ctx, "disabled_input", selDisabled, w.disabled)
}

func (w *webForm) ReadonlyInput(ctx context.Context) (domain.InputState, error) {
	return w.inputState(ctx, "readonly_input", selReadonly, w.readonly)
}

// TypeIntoReadonly sends key presses; Fill would refuse a readonly input.
func (w *webForm) TypeIntoReadonly(ctx context.Context, text string) error {
	return w.do(ctx, "type_readonly", selReadonly, func() error { return w.readonly.PressSequentially(text) })
}

func (w *webForm) SelectByLabel(ctx context.Context, label string) error {
	return w.do(ctx, "select_label", selSelect, func() error {
		_, err := w.sel.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}})
		return err
	})
}

func (w *webForm) SelectByValue(ctx context.Context, value string) error {
	return w.do(ctx, "select_value", selSelect, func() error {
		_, err := w.sel.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
		return err
	})
}

func (w *webForm) SelectedOption(ctx context.Context) (domain.SelectedOption, error) {
	var out domain.SelectedOption
	err := w.do(ctx, "selected_option", selSelect, func() error {
		v, err := w.sel.Evaluate(selectedOptionJS, nil)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected selection result %T", v)
		}
		out.Value, _ = m["value"].(string)
		out.Label, _ = m["label"].(string)
		return nil
	})
	return out, err
}

func (w *webForm) FillDatalist(ctx context.Context, value string) error {
	return w.do(ctx, "fill_datalist", selDatalist, func() error { return w.datalist.Fill(value) })
}

func (w *webForm) DatalistValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "datalist_value", selDatalist, w.datalist)
}

func (w *webForm) UploadFile(ctx context.Context, path string) error {
	return w.do(ctx, "upload_file", selFile, func() error { return w.file.SetInputFiles(path) })
}

func (w *webForm) Submit(ctx context.Context) error {
	return w.clickAndWait(ctx, "submit", "text=Submit", w.submit, "**/"+domain.SubmittedFormPath+"*")
}

func (w *webForm) IsChecked(ctx context.Context, t domain.Toggle) (bool, error) {
	var out bool
	err := w.do(ctx, "is_checked", toggleSelectors[t], func() error {
		l, ok := w.toggles[t]
		if !ok {
			return fmt.Errorf("unknown toggle %q", t)
		}
		var err error
		out, err = l.IsChecked()
		return err
	})
	return out, err
}

func (w *webForm) Toggle(ctx context.Context, t domain.Toggle) error {
	return w.do(ctx, "toggle", toggleSelectors[t], func() error {
		l, ok := w.toggles[t]
		if !ok {
			return fmt.Errorf("unknown toggle %q", t)
		}
		return l.Click()
	})
}

func (w *webForm) ColorValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "color_value", selColor, w.color)
}

func (w *webForm) SetColor(ctx context.Context, hex string) error {
	return w.do(ctx, "set_color", selColor, func() error { return w.color.Fill(hex) })
}

func (w *webForm) FillDate(ctx context.Context, date string) error {
	return w.do(ctx, "fill_date", selDate, func() error {
		if err := w.date.Click(); err != nil {
			return err
		}
		return w.date.Fill(date)
	})
}

func (w *webForm) DateValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "date_value", selDate, w.date)
}

func (w *webForm) RangeValue(ctx context.Context) (string, error) {
	return w.inputValue(ctx, "range_value", selRange, w.rng)
}

// ClickRange presses the mouse on the slider track at fraction of its width.
func (w *webForm) ClickRange(ctx context.Context, fraction float64) error {
	return w.do(ctx, "click_range", selRange, func() error {
		box, err := w.rng.BoundingBox()
		if err != nil {
			return err
		}
		if box == nil {
			return fmt.Errorf("range input is not rendered")
		}
		x := box.X + math.Min(box.Width*fraction, box.Width-1)
		y := box.Y + box.Height/2

		m := w.s.page.Mouse()
		if err := m.Move(x, y); err != nil {
			return err
		}
		if err := m.Down(); err != nil {
			return err
		}
		return m.Up()
	})
}

func (w *webForm) ReturnToIndex(ctx context.Context) error {
	return w.clickAndWait(ctx, "return_to_index", selIndexLink, w.indexLink, "**/"+domain.IndexPath)
}

func (w *webForm) OpenCopyrightLink(ctx context.Context) error {
	return w.clickAndWait(ctx, "copyright_link", selCopyrightLink, w.copyrightLink, domain.AuthorURL)
}

func (w *webForm) CopyrightText(ctx context.Context) (string, error) {
	return w.innerText(ctx, "copyright_text", selCopyright, w.copyright)
}

type submittedPage struct {
	s       *Session
	heading playwright.Locator
}

var _ ports.SubmittedPage = (*submittedPage)(nil)

func newSubmittedPage(s *Session) *submittedPage {
	return &submittedPage{s: s, heading: s.page.Locator(selSubmitted)}
}

func (p *submittedPage) Heading(ctx context.Context) (string, error) {
	if err := p.s.guard(ctx, "submitted_heading"); err != nil {
		return "", err
	}
	v, err := p.heading.InnerText()
	return v, wrap("submitted_heading", selSubmitted, err)
}

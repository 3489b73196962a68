package fakeweb

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// page is the mutable state of one simulated tab.
type page struct {
	mu      sync.Mutex
	content Content
	hook    func(op string) error
	closed  bool

	baseURL string
	url     string

	login, password, textarea string
	datalist, file, date      string
	color                     string
	selected                  domain.SelectedOption
	rangeValue                int
	checks                    map[domain.Toggle]bool
}

func newPage(c Content, hook func(string) error) *page {
	p := &page{content: c, hook: hook}
	p.reset()
	return p
}

func (p *page) reset() {
	p.login, p.password, p.textarea = "", "", ""
	p.datalist, p.file, p.date = "", "", ""
	p.color = p.content.InitialColor
	p.selected = domain.SelectedOption{Value: p.content.InitialSelect, Label: p.content.InitialSelect}
	p.rangeValue = p.content.InitialRange
	p.checks = map[domain.Toggle]bool{
		domain.CheckedCheckbox: true,
		domain.DefaultCheckbox: false,
		domain.CheckedRadio:    true,
		domain.DefaultRadio:    false,
	}
}

// do runs fn under the page lock after the closed and hook checks.
func (p *page) do(op string, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return &domain.OpError{Op: "fakeweb." + op, Kind: domain.KindSessionClosed, Err: domain.ErrSessionClosed}
	}
	if p.hook != nil {
		if err := p.hook(op); err != nil {
			return err
		}
	}
	return fn()
}

// on fails unless the current document is one of paths.
func (p *page) on(op string, paths ...string) error {
	for _, path := range paths {
		if p.url == p.baseURL+path {
			return nil
		}
	}
	return &domain.OpError{
		Op:   "fakeweb." + op,
		Kind: domain.KindElementResolution,
		Path: p.url,
		Err:  fmt.Errorf("element not present on %q", p.url),
	}
}

func (p *page) navigate(raw string) {
	u := raw
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	p.url = raw
	if strings.HasSuffix(u, domain.WebFormPath) {
		p.baseURL = strings.TrimSuffix(u, domain.WebFormPath)
		p.reset()
	}
}

// webForm implements ports.WebForm over page.
type webForm struct{ p *page }

var _ ports.WebForm = webForm{}

func (w webForm) text(op string, get func() string) (string, error) {
	var out string
	err := w.p.do(op, func() error {
		if err := w.p.on(op, domain.WebFormPath); err != nil {
			return err
		}
		out = get()
		return nil
	})
	return out, err
}

func (w webForm) act(op string, fn func()) error {
	return w.p.do(op, func() error {
		if err := w.p.on(op, domain.WebFormPath); err != nil {
			return err
		}
		fn()
		return nil
	})
}

func (w webForm) Heading(context.Context) (string, error) {
	return w.text("heading", func() string { return w.p.content.Heading })
}

func (w webForm) Subtitle(context.Context) (string, error) {
	return w.text("subtitle", func() string { return w.p.content.Subtitle })
}

func (w webForm) FormTitle(context.Context) (string, error) {
	return w.text("form_title", func() string { return w.p.content.FormTitle })
}

func (w webForm) IconInfo(context.Context) (domain.IconInfo, error) {
	var info domain.IconInfo
	err := w.act("icon", func() {
		info = domain.IconInfo{Visible: true, Width: w.p.content.IconWidth, Height: w.p.content.IconHeight}
	})
	return info, err
}

func (w webForm) ClickIcon(context.Context) error {
	return w.act("click_icon", func() { w.p.navigate(domain.RepositoryURL) })
}

func (w webForm) FieldLabels(context.Context) ([]string, error) {
	var out []string
	err := w.act("field_labels", func() { out = append(out, w.p.content.FieldLabels...) })
	return out, err
}

func (w webForm) CheckLabels(context.Context) ([]string, error) {
	var out []string
	err := w.act("check_labels", func() { out = append(out, w.p.content.CheckLabels...) })
	return out, err
}

func (w webForm) InputLogin(_ context.Context, login string) error {
	return w.act("input_login", func() { w.p.login += login })
}

func (w webForm) LoginValue(context.Context) (string, error) {
	return w.text("login_value", func() string { return w.p.login })
}

func (w webForm) ClearTextValue(context.Context) error {
	return w.act("clear_login", func() { w.p.login = "" })
}

func (w webForm) InputPassword(_ context.Context, password string) error {
	return w.act("input_password", func() { w.p.password += password })
}

func (w webForm) PasswordValue(context.Context) (string, error) {
	return w.text("password_value", func() string { return w.p.password })
}

func (w webForm) ClearPasswordValue(context.Context) error {
	return w.act("clear_password", func() { w.p.password = "" })
}

func (w webForm) FillTextarea(_ context.Context, text string) error {
	return w.act("fill_textarea", func() { w.p.textarea = text })
}

func (w webForm) TextareaValue(context.Context) (string, error) {
	return w.text("textarea_value", func() string { return w.p.textarea })
}

func (w webForm) ClearTextarea(context.Context) error {
	return w.act("clear_textarea", func() { w.p.textarea = "" })
}

func (w webForm) DisabledInput(context.Context) (domain.InputState, error) {
	var st domain.InputState
	err := w.act("disabled_input", func() {
		st = domain.InputState{Placeholder: w.p.content.DisabledHint, Label: "Disabled input"}
	})
	return st, err
}

func (w webForm) ReadonlyInput(context.Context) (domain.InputState, error) {
	var st domain.InputState
	err := w.act("readonly_input", func() {
		st = domain.InputState{Enabled: true, Value: w.p.content.ReadonlyValue, Label: "Readonly input"}
	})
	return st, err
}

func (w webForm) TypeIntoReadonly(context.Context, string) error {
	return w.act("type_readonly", func() {})
}

func (w webForm) SelectByLabel(_ context.Context, label string) error {
	return w.selectWhere("select_label", func(v, l string) bool { return l == label }, label)
}

func (w webForm) SelectByValue(_ context.Context, value string) error {
	return w.selectWhere("select_value", func(v, l string) bool { return v == value }, value)
}

func (w webForm) selectWhere(op string, match func(v, l string) bool, want string) error {
	return w.p.do(op, func() error {
		if err := w.p.on(op, domain.WebFormPath); err != nil {
			return err
		}
		for _, o := range selectOptions {
			if match(o.value, o.label) {
				w.p.selected = domain.SelectedOption{Value: o.value, Label: o.label}
				return nil
			}
		}
		return &domain.OpError{
			Op:   "fakeweb." + op,
			Kind: domain.KindElementResolution,
			Err:  fmt.Errorf("no option %q", want),
		}
	})
}

func (w webForm) SelectedOption(context.Context) (domain.SelectedOption, error) {
	var out domain.SelectedOption
	err := w.act("selected_option", func() { out = w.p.selected })
	return out, err
}

func (w webForm) FillDatalist(_ context.Context, value string) error {
	return w.act("fill_datalist", func() { w.p.datalist = value })
}

func (w webForm) DatalistValue(context.Context) (string, error) {
	return w.text("datalist_value", func() string { return w.p.datalist })
}

func (w webForm) UploadFile(_ context.Context, path string) error {
	return w.act("upload_file", func() { w.p.file = filepath.Base(path) })
}

// Submit sends the form with GET, like the real page does.
func (w webForm) Submit(context.Context) error {
	return w.act("submit", func() {
		q := url.Values{}
		q.Set("my-text", w.p.login)
		q.Set("my-password", w.p.password)
		q.Set("my-textarea", w.p.textarea)
		q.Set("my-readonly", w.p.content.ReadonlyValue)
		q.Set("my-select", w.p.selected.Value)
		q.Set("my-datalist", w.p.datalist)
		q.Set("my-file", w.p.file)
		q.Set("my-colors", w.p.color)
		q.Set("my-date", w.p.date)
		q.Set("my-range", strconv.Itoa(w.p.rangeValue))
		w.p.navigate(w.p.baseURL + domain.SubmittedFormPath + "?" + q.Encode())
	})
}

func (w webForm) IsChecked(_ context.Context, t domain.Toggle) (bool, error) {
	var out bool
	err := w.act("is_checked", func() { out = w.p.checks[t] })
	return out, err
}

func (w webForm) Toggle(_ context.Context, t domain.Toggle) error {
	return w.act("toggle", func() {
		switch t {
		case domain.CheckedRadio, domain.DefaultRadio:
			w.p.checks[domain.CheckedRadio] = t == domain.CheckedRadio
			w.p.checks[domain.DefaultRadio] = t == domain.DefaultRadio
		default:
			w.p.checks[t] = !w.p.checks[t]
		}
	})
}

func (w webForm) ColorValue(context.Context) (string, error) {
	return w.text("color_value", func() string { return w.p.color })
}

func (w webForm) SetColor(_ context.Context, hex string) error {
	return w.act("set_color", func() { w.p.color = strings.ToLower(hex) })
}

func (w webForm) FillDate(_ context.Context, date string) error {
	return w.act("fill_date", func() { w.p.date = date })
}

func (w webForm) DateValue(context.Context) (string, error) {
	return w.text("date_value", func() string { return w.p.date })
}

func (w webForm) RangeValue(context.Context) (string, error) {
	return w.text("range_value", func() string { return strconv.Itoa(w.p.rangeValue) })
}

// ClickRange snaps to the nearest step of a 0..10 slider.
func (w webForm) ClickRange(_ context.Context, fraction float64) error {
	return w.act("click_range", func() {
		f := math.Max(0, math.Min(1, fraction))
		w.p.rangeValue = int(math.Round(f * 10))
	})
}

func (w webForm) ReturnToIndex(context.Context) error {
	return w.act("return_to_index", func() { w.p.navigate(w.p.baseURL + domain.IndexPath) })
}

func (w webForm) OpenCopyrightLink(context.Context) error {
	return w.act("copyright_link", func() { w.p.navigate(domain.AuthorURL) })
}

func (w webForm) CopyrightText(context.Context) (string, error) {
	return w.text("copyright_text", func() string { return w.p.content.Copyright })
}

// homePage implements ports.HomePage.
type homePage struct{ p *page }

var _ ports.HomePage = homePage{}

func (h homePage) Open(context.Context) error {
	return h.p.do("home_open", func() error {
		h.p.navigate(h.p.baseURL)
		return nil
	})
}

func (h homePage) OpenWebForm(context.Context) (ports.WebForm, error) {
	err := h.p.do("open_web_form", func() error {
		if err := h.p.on("open_web_form", "", domain.IndexPath); err != nil {
			return err
		}
		h.p.navigate(h.p.baseURL + domain.WebFormPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return webForm{p: h.p}, nil
}

type submittedPage struct{ p *page }

var _ ports.SubmittedPage = submittedPage{}

func (s submittedPage) Heading(context.Context) (string, error) {
	var out string
	err := s.p.do("submitted_heading", func() error {
		if !strings.HasPrefix(s.p.url, s.p.baseURL+domain.SubmittedFormPath) {
			return s.p.on("submitted_heading", domain.SubmittedFormPath)
		}
		out = s.p.content.Submitted
		return nil
	})
	return out, err
}

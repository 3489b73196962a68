package cdpbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/chromedp/chromedp"
)

var (
	qHeading       = byCSS(".display-4")
	qSubtitle      = byCSS("h5")
	qFormTitle     = byCSS(".display-6")
	qIcon          = byXPath("//img[@src = 'img/hands-on-icon.png']")
	qForm          = byCSS("form")
	qLogin         = byID("#my-text-id")
	qPassword      = byCSS("[name='my-password']")
	qTextarea      = byCSS("[name='my-textarea']")
	qDisabled      = byCSS("[name='my-disabled']")
	qReadonly      = byCSS("[name='my-readonly']")
	qSelect        = byCSS("[name='my-select']")
	qDatalist      = byCSS("[name='my-datalist']")
	qFile          = byCSS("input[name='my-file']")
	qSubmit        = byXPath("//button[normalize-space(text()) = 'Submit']")
	qColor         = byCSS("[name='my-colors']")
	qDate          = byCSS("[name='my-date']")
	qRange         = byCSS("[name='my-range']")
	qIndexLink     = byXPath("//a[@href = './index.html']")
	qCopyrightLink = byXPath("//a[@href = 'https://bonigarcia.dev/']")
	qCopyright     = byXPath("//span[@class = 'text-muted' and starts-with(normalize-space(.), 'Copyright')]")
	qSubmitted     = byXPath("//h1[@class = 'display-6']")
	qWebFormLink   = byXPath("//a[normalize-space(text()) = 'Web form']")
)

const (
	selFieldLabels = ".form-label.w-100"
	selCheckLabels = ".form-check-label.w-100"
)

var toggleQueries = map[domain.Toggle]query{
	domain.CheckedCheckbox: byID("#my-check-1"),
	domain.DefaultCheckbox: byID("#my-check-2"),
	domain.CheckedRadio:    byID("#my-radio-1"),
	domain.DefaultRadio:    byID("#my-radio-2"),
}

type homePage struct{ s *Session }

var _ ports.HomePage = (*homePage)(nil)

func (h *homePage) Open(ctx context.Context) error {
	return h.s.Navigate(ctx, h.s.baseURL)
}

func (h *homePage) OpenWebForm(ctx context.Context) (ports.WebForm, error) {
	err := h.s.run(ctx, "open_web_form", qWebFormLink,
		chromedp.Click(qWebFormLink.sel, qWebFormLink.by),
		h.s.waitURL("open_web_form", domain.WebFormPath, func(u string) bool {
			return strings.HasSuffix(u, "/"+domain.WebFormPath)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &webForm{s: h.s}, nil
}

// webForm resolves every selector at call time; nothing is cached between calls.
type webForm struct{ s *Session }

var _ ports.WebForm = (*webForm)(nil)

func (w *webForm) text(ctx context.Context, op string, q query) (string, error) {
	var v string
	err := w.s.run(ctx, op, q, chromedp.Text(q.sel, &v, q.by, chromedp.NodeVisible))
	return v, err
}

func (w *webForm) value(ctx context.Context, op string, q query) (string, error) {
	var v string
	err := w.s.run(ctx, op, q, chromedp.Value(q.sel, &v, q.by))
	return v, err
}

func (w *webForm) sendKeys(ctx context.Context, op string, q query, keys string) error {
	return w.s.run(ctx, op, q, chromedp.SendKeys(q.sel, keys, q.by))
}

func (w *webForm) clear(ctx context.Context, op string, q query) error {
	return w.s.run(ctx, op, q, chromedp.Clear(q.sel, q.by))
}

// eval runs fn against the first element matching q once it is ready.
// fn is a JS function expression taking the element.
func (w *webForm) eval(ctx context.Context, op string, q query, fn string, res any) error {
	lit, err := json.Marshal(q.sel)
	if err != nil {
		return err
	}
	var find string
	if q.xpath {
		find = fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`, lit)
	} else {
		find = fmt.Sprintf(`document.querySelector(%s)`, lit)
	}
	return w.s.run(ctx, op, q,
		chromedp.WaitReady(q.sel, q.by),
		chromedp.Evaluate(fmt.Sprintf(`(%s)(%s)`, fn, find), res),
	)
}

func (w *webForm) clickAndWait(ctx context.Context, op string, q query, want string, match func(string) bool) error {
	return w.s.run(ctx, op, q,
		chromedp.Click(q.sel, q.by),
		w.s.waitURL(op, want, match),
	)
}

func (w *webForm) Heading(ctx context.Context) (string, error) {
	return w.text(ctx, "heading", qHeading)
}

func (w *webForm) Subtitle(ctx context.Context) (string, error) {
	return w.text(ctx, "subtitle", qSubtitle)
}

func (w *webForm) FormTitle(ctx context.Context) (string, error) {
	return w.text(ctx, "form_title", qFormTitle)
}

const rectJS = `el => { const r = el.getBoundingClientRect(); const s = getComputedStyle(el);
  return { x: r.x, y: r.y, width: r.width, height: r.height,
    visible: r.width > 0 && r.height > 0 && s.visibility !== "hidden" && s.display !== "none" }; }`

type rect struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

func (w *webForm) IconInfo(ctx context.Context) (domain.IconInfo, error) {
	var r rect
	if err := w.eval(ctx, "icon", qIcon, rectJS, &r); err != nil {
		return domain.IconInfo{}, err
	}
	return domain.IconInfo{
		Visible: r.Visible,
		Width:   int(math.Round(r.Width)),
		Height:  int(math.Round(r.Height)),
	}, nil
}

func (w *webForm) ClickIcon(ctx context.Context) error {
	return w.clickAndWait(ctx, "click_icon", qIcon, domain.RepositoryURL, func(u string) bool {
		return strings.HasPrefix(u, domain.RepositoryURL)
	})
}

func (w *webForm) labels(ctx context.Context, op, selector string) ([]string, error) {
	var fragment string
	if err := w.s.run(ctx, op, qForm, chromedp.OuterHTML(qForm.sel, &fragment, qForm.by)); err != nil {
		return nil, err
	}
	out, err := parseLabels(fragment, selector)
	if err != nil {
		return nil, wrapErr(op, selector, err)
	}
	if len(out) == 0 {
		return nil, notMatched(op, selector, selector)
	}
	return out, nil
}

func (w *webForm) FieldLabels(ctx context.Context) ([]string, error) {
	return w.labels(ctx, "field_labels", selFieldLabels)
}

func (w *webForm) CheckLabels(ctx context.Context) ([]string, error) {
	return w.labels(ctx, "check_labels", selCheckLabels)
}

func (w *webForm) InputLogin(ctx context.Context, login string) error {
	return w.sendKeys(ctx, "input_login", qLogin, login)
}

func (w *webForm) LoginValue(ctx context.Context) (string, error) {
	return w.value(ctx, "login_value", qLogin)
}

func (w *webForm) ClearTextValue(ctx context.Context) error {
	return w.clear(ctx, "clear_login", qLogin)
}

func (w *webForm) InputPassword(ctx context.Context, password string) error {
	return w.sendKeys(ctx, "input_password", qPassword, password)
}

func (w *webForm) PasswordValue(ctx context.Context) (string, error) {
	return w.value(ctx, "password_value", qPassword)
}

func (w *webForm) ClearPasswordValue(ctx context.Context) error {
	return w.clear(ctx, "clear_password", qPassword)
}

// FillTextarea sets the value directly; key-by-key input of long text
// would eat most of the action timeout.
func (w *webForm) FillTextarea(ctx context.Context, text string) error {
	return w.s.run(ctx, "fill_textarea", qTextarea, chromedp.SetValue(qTextarea.sel, text, qTextarea.by))
}

func (w *webForm) TextareaValue(ctx context.Context) (string, error) {
	return w.value(ctx, "textarea_value", qTextarea)
}

func (w *webForm) ClearTextarea(ctx context.Context) error {
	return w.clear(ctx, "clear_textarea", qTextarea)
}

const inputStateJS = `el => ({
  enabled: !el.disabled,
  editable: !el.disabled && !el.readOnly,
  value: el.value,
  placeholder: el.getAttribute("placeholder") || "",
  label: el.parentElement ? el.parentElement.innerText : "" })`

type inputState struct {
	Enabled     bool   `json:"enabled"`
	Editable    bool   `json:"editable"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
}

func (w *webForm) inputState(ctx context.Context, op string, q query) (domain.InputState, error) {
	var st inputState
	if err := w.eval(ctx, op, q, inputStateJS, &st); err != nil {
		return domain.InputState{}, err
	}
	return domain.InputState{
		Enabled:     st.Enabled,
		Editable:    st.Editable,
		Value:       st.Value,
		Placeholder: st.Placeholder,
		Label:       domain.NormalizeLabel(st.Label),
	}, nil
}

func (w *webForm) DisabledInput(ctx context.Context) (domain.InputState, error) {
	return w.inputState(ctx, "disabled_input", qDisabled)
}

func (w *webForm) ReadonlyInput(ctx context.Context) (domain.InputState, error) {
	return w.inputState(ctx, "readonly_input", qReadonly)
}

func (w *webForm) TypeIntoReadonly(ctx context.Context, text string) error {
	return w.sendKeys(ctx, "type_readonly", qReadonly, text)
}

// selectJS picks the first option whose field (text or value) equals want
// and fires change like a user selection would. It reports whether one matched.
func selectJS(field, want string) string {
	lit, _ := json.Marshal(want)
	return fmt.Sprintf(`el => { const o = Array.from(el.options).find(o => o.%s === %s);
  if (!o) { return false; }
  el.value = o.value;
  el.dispatchEvent(new Event("input", { bubbles: true }));
  el.dispatchEvent(new Event("change", { bubbles: true }));
  return true; }`, field, lit)
}

func (w *webForm) selectOption(ctx context.Context, op, field, want string) error {
	var ok bool
	if err := w.eval(ctx, op, qSelect, selectJS(field, want), &ok); err != nil {
		return err
	}
	if !ok {
		return notMatched(op, qSelect.sel, fmt.Sprintf("option %s %q", field, want))
	}
	return nil
}

func (w *webForm) SelectByLabel(ctx context.Context, label string) error {
	return w.selectOption(ctx, "select_label", "text", label)
}

func (w *webForm) SelectByValue(ctx context.Context, value string) error {
	return w.selectOption(ctx, "select_value", "value", value)
}

const selectedOptionJS = `el => ({ value: el.value, label: el.selectedIndex >= 0 ? el.options[el.selectedIndex].text : "" })`

func (w *webForm) SelectedOption(ctx context.Context) (domain.SelectedOption, error) {
	var out struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	if err := w.eval(ctx, "selected_option", qSelect, selectedOptionJS, &out); err != nil {
		return domain.SelectedOption{}, err
	}
	return domain.SelectedOption{Value: out.Value, Label: out.Label}, nil
}

func (w *webForm) FillDatalist(ctx context.Context, value string) error {
	return w.sendKeys(ctx, "fill_datalist", qDatalist, value)
}

func (w *webForm) DatalistValue(ctx context.Context) (string, error) {
	return w.value(ctx, "datalist_value", qDatalist)
}

func (w *webForm) UploadFile(ctx context.Context, path string) error {
	return w.s.run(ctx, "upload_file", qFile, chromedp.SetUploadFiles(qFile.sel, []string{path}, qFile.by))
}

func (w *webForm) Submit(ctx context.Context) error {
	return w.clickAndWait(ctx, "submit", qSubmit, domain.SubmittedFormPath, func(u string) bool {
		return strings.Contains(u, "/"+domain.SubmittedFormPath)
	})
}

func (w *webForm) IsChecked(ctx context.Context, t domain.Toggle) (bool, error) {
	q, ok := toggleQueries[t]
	if !ok {
		return false, notMatched("is_checked", string(t), "unknown toggle")
	}
	var checked bool
	err := w.s.run(ctx, "is_checked", q, chromedp.JavascriptAttribute(q.sel, "checked", &checked, q.by))
	return checked, err
}

func (w *webForm) Toggle(ctx context.Context, t domain.Toggle) error {
	q, ok := toggleQueries[t]
	if !ok {
		return notMatched("toggle", string(t), "unknown toggle")
	}
	return w.s.run(ctx, "toggle", q, chromedp.Click(q.sel, q.by))
}

func (w *webForm) ColorValue(ctx context.Context) (string, error) {
	return w.value(ctx, "color_value", qColor)
}

func (w *webForm) SetColor(ctx context.Context, hex string) error {
	return w.s.run(ctx, "set_color", qColor, chromedp.SetValue(qColor.sel, hex, qColor.by))
}

func (w *webForm) FillDate(ctx context.Context, date string) error {
	return w.s.run(ctx, "fill_date", qDate,
		chromedp.Click(qDate.sel, qDate.by),
		chromedp.SendKeys(qDate.sel, date, qDate.by),
	)
}

func (w *webForm) DateValue(ctx context.Context) (string, error) {
	return w.value(ctx, "date_value", qDate)
}

func (w *webForm) RangeValue(ctx context.Context) (string, error) {
	return w.value(ctx, "range_value", qRange)
}

// ClickRange presses the mouse on the slider track at fraction of its width.
func (w *webForm) ClickRange(ctx context.Context, fraction float64) error {
	var r rect
	if err := w.eval(ctx, "click_range", qRange, rectJS, &r); err != nil {
		return err
	}
	if !r.Visible {
		return notMatched("click_range", qRange.sel, "range input is not rendered")
	}
	x := r.X + math.Min(r.Width*fraction, r.Width-1)
	y := r.Y + r.Height/2
	return w.s.run(ctx, "click_range", qRange, chromedp.MouseClickXY(x, y))
}

func (w *webForm) ReturnToIndex(ctx context.Context) error {
	return w.clickAndWait(ctx, "return_to_index", qIndexLink, domain.IndexPath, func(u string) bool {
		return strings.HasSuffix(u, "/"+domain.IndexPath)
	})
}

func (w *webForm) OpenCopyrightLink(ctx context.Context) error {
	return w.clickAndWait(ctx, "copyright_link", qCopyrightLink, domain.AuthorURL, func(u string) bool {
		return u == domain.AuthorURL
	})
}

func (w *webForm) CopyrightText(ctx context.Context) (string, error) {
	return w.text(ctx, "copyright_text", qCopyright)
}

type submittedPage struct{ s *Session }

var _ ports.SubmittedPage = (*submittedPage)(nil)

func (p *submittedPage) Heading(ctx context.Context) (string, error) {
	var v string
	err := p.s.run(ctx, "submitted_heading", qSubmitted, chromedp.Text(qSubmitted.sel, &v, qSubmitted.by, chromedp.NodeVisible))
	return v, err
}

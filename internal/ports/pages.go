package ports

import (
	"context"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

// HomePage is the practice site index.
type HomePage interface {
	Open(ctx context.Context) error
	OpenWebForm(ctx context.Context) (WebForm, error)
}

// WebForm exposes one method per user intention on the web form page.
// Locators never leave the implementations.
type WebForm interface {
	Heading(ctx context.Context) (string, error)
	Subtitle(ctx context.Context) (string, error)
	FormTitle(ctx context.Context) (string, error)
	IconInfo(ctx context.Context) (domain.IconInfo, error)
	ClickIcon(ctx context.Context) error
	FieldLabels(ctx context.Context) ([]string, error)
	CheckLabels(ctx context.Context) ([]string, error)

	InputLogin(ctx context.Context, login string) error
	LoginValue(ctx context.Context) (string, error)
	ClearTextValue(ctx context.Context) error

	InputPassword(ctx context.Context, password string) error
	PasswordValue(ctx context.Context) (string, error)
	ClearPasswordValue(ctx context.Context) error

	FillTextarea(ctx context.Context, text string) error
	TextareaValue(ctx context.Context) (string, error)
	ClearTextarea(ctx context.Context) error

	DisabledInput(ctx context.Context) (domain.InputState, error)
	ReadonlyInput(ctx context.Context) (domain.InputState, error)
	TypeIntoReadonly(ctx context.Context, text string) error

	SelectByLabel(ctx context.Context, label string) error
	SelectByValue(ctx context.Context, value string) error
	SelectedOption(ctx context.Context) (domain.SelectedOption, error)

	FillDatalist(ctx context.Context, value string) error
	DatalistValue(ctx context.Context) (string, error)

	UploadFile(ctx context.Context, path string) error
	Submit(ctx context.Context) error

	IsChecked(ctx context.Context, t domain.Toggle) (bool, error)
	Toggle(ctx context.Context, t domain.Toggle) error

	ColorValue(ctx context.Context) (string, error)
	SetColor(ctx context.Context, hex string) error

	FillDate(ctx context.Context, date string) error
	DateValue(ctx context.Context) (string, error)

	RangeValue(ctx context.Context) (string, error)
	// ClickRange clicks the slider track at fraction (0..1) of its width.
	ClickRange(ctx context.Context, fraction float64) error

	ReturnToIndex(ctx context.Context) error
	OpenCopyrightLink(ctx context.Context) error
	CopyrightText(ctx context.Context) (string, error)
}

// SubmittedPage is shown after the form is submitted.
type SubmittedPage interface {
	Heading(ctx context.Context) (string, error)
}

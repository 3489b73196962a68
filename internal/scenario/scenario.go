// Package scenario defines the ordered browser scenarios and the helpers
// they are built from. Scenarios depend only on the page capability
// interfaces, never on a concrete backend.
package scenario

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// Step is one phase of a scenario.
type Step func(ctx context.Context, env *Env) error

// Scenario is a named, ordered unit of user interaction plus assertions.
type Scenario struct {
	Name  string
	Order int
	// Param is the value of a parameterized instance, empty otherwise.
	Param string
	// Brittle scenarios assert on third-party content that may drift.
	Brittle bool

	Act    Step
	Assert Step
}

// Key identifies a scenario instance within a catalog.
func (s Scenario) Key() string {
	if s.Param == "" {
		return s.Name
	}
	return s.Name + " [" + s.Param + "]"
}

// Env is everything a scenario may touch. It is built per session.
type Env struct {
	Session   ports.Session
	Home      ports.HomePage
	Form      ports.WebForm
	Submitted ports.SubmittedPage
	Settings  domain.Settings
	Check     *Checker

	// TempDir is scratch space owned by the scenario.
	TempDir string

	// Memo carries values from Act to Assert.
	Memo map[string]string
}

// NewEnv binds page objects of s. The env must not outlive the session.
func NewEnv(s ports.Session, settings domain.Settings, tempDir string) *Env {
	return &Env{
		Session:   s,
		Home:      s.HomePage(),
		Form:      s.WebForm(),
		Submitted: s.SubmittedPage(),
		Settings:  settings,
		Check:     NewChecker(),
		TempDir:   tempDir,
		Memo:      map[string]string{},
	}
}

// URL is the address currently loaded in the session.
func (e *Env) URL(ctx context.Context) (string, error) {
	return e.Session.CurrentURL(ctx)
}

// UploadFile returns the file to attach: the uploadFile setting when
// present, otherwise a small placeholder image created in TempDir.
func (e *Env) UploadFile() (string, error) {
	if p, ok := e.Settings.Lookup(domain.KeyUploadFile); ok && strings.TrimSpace(p) != "" {
		return p, nil
	}
	path := filepath.Join(e.TempDir, UploadFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := writePlaceholder(path); err != nil {
		return "", &domain.OpError{Op: "scenario.upload_file", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return path, nil
}

// writePlaceholder writes a 1x1 JPEG; the form only reports the file name.
func writePlaceholder(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0x56, G: 0x3d, B: 0x7c, A: 0xff})
	if err := jpeg.Encode(f, img, nil); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Filter narrows a catalog.
type Filter struct {
	Only        string
	SkipBrittle bool
}

func (f Filter) match(s Scenario) bool {
	if f.SkipBrittle && s.Brittle {
		return false
	}
	if f.Only != "" && !strings.Contains(strings.ToLower(s.Key()), strings.ToLower(f.Only)) {
		return false
	}
	return true
}

// Select yields the scenarios of seq accepted by f.
func Select(seq iter.Seq[Scenario], f Filter) iter.Seq[Scenario] {
	return func(yield func(Scenario) bool) {
		for s := range seq {
			if f.match(s) && !yield(s) {
				return
			}
		}
	}
}

// Concat yields every scenario of each seq in turn.
func Concat(seqs ...iter.Seq[Scenario]) iter.Seq[Scenario] {
	return func(yield func(Scenario) bool) {
		for _, seq := range seqs {
			for s := range seq {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Single wraps one scenario as a sequence.
func Single(s Scenario) iter.Seq[Scenario] {
	return func(yield func(Scenario) bool) { yield(s) }
}

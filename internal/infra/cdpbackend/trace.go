package cdpbackend

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entries of a chromedp trace archive.
const (
	traceScreenshot = "screenshot.png"
	traceDOM        = "dom.html"
	traceMeta       = "meta.json"
)

type traceSnapshot struct {
	URL        string    `json:"url"`
	CapturedAt time.Time `json:"captured_at"`
	Screenshot []byte    `json:"-"`
	DOM        string    `json:"-"`
}

// writeTrace stores the final page state as a zip next to the playwright traces.
func writeTrace(path string, snap traceSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	write := func(name string, b []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	meta, err := json.MarshalIndent(snap, "", "  ")
	if err == nil {
		err = write(traceMeta, meta)
	}
	if err == nil && len(snap.Screenshot) > 0 {
		err = write(traceScreenshot, snap.Screenshot)
	}
	if err == nil {
		err = write(traceDOM, []byte(snap.DOM))
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write trace: %w", err)
	}

	return os.Rename(tmp, path)
}

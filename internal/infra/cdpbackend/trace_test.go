package cdpbackend

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteTraceArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chromedp", "01-heading.zip")
	snap := traceSnapshot{
		URL:        "https://bonigarcia.dev/selenium-webdriver-java/web-form.html",
		CapturedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Screenshot: []byte("\x89PNG fake"),
		DOM:        "<html><body>form</body></html>",
	}
	if err := writeTrace(path, snap); err != nil {
		t.Fatalf("writeTrace error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, got %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	entries := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		entries[f.Name] = b
	}

	if string(entries[traceDOM]) != snap.DOM {
		t.Fatalf("unexpected dom entry %q", entries[traceDOM])
	}
	if string(entries[traceScreenshot]) != string(snap.Screenshot) {
		t.Fatalf("unexpected screenshot entry")
	}

	var meta struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(entries[traceMeta], &meta); err != nil {
		t.Fatalf("meta json: %v", err)
	}
	if meta.URL != snap.URL {
		t.Fatalf("unexpected meta url %q", meta.URL)
	}
}

func TestWriteTraceSkipsEmptyScreenshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.zip")
	if err := writeTrace(path, traceSnapshot{DOM: "<html></html>"}); err != nil {
		t.Fatalf("writeTrace error: %v", err)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == traceScreenshot {
			t.Fatalf("expected no screenshot entry")
		}
	}
}

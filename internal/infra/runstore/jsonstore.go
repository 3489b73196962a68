package runstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/oklog/ulid/v2"
)

const (
	defaultRunsDir = "runs"
	indexFile      = "index.jsonl"
	maskValue      = "********"
)

type JSONStore struct {
	rootDir        string
	runsDirName    string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
	newID          func(time.Time) string
}

type Option func(*JSONStore)

// WithIndex toggles the JSONL index at runs/index.jsonl.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDSource replaces ULID generation.
func WithIDSource(fn func(time.Time) string) Option {
	return func(s *JSONStore) { s.newID = fn }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:        root,
		runsDirName:    runsDir,
		maskingEnabled: cfg.Masking.Enabled,
		writeIndex:     true,
		now:            time.Now,
		newID: func(ts time.Time) string {
			return ulid.MustNew(ulid.Timestamp(ts), ulid.DefaultEntropy()).String()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

// Dir is the absolute directory runs are written to.
func (s *JSONStore) Dir() string {
	return filepath.Join(s.rootDir, s.runsDirName)
}

func (s *JSONStore) SaveRun(run domain.RunArtifact) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	toSave := run
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = s.now()
	}
	ts := toSave.StartedAt.UTC()

	if strings.TrimSpace(toSave.ID) == "" {
		toSave.ID = s.newID(ts)
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), toSave.ID)
	path := filepath.Join(dir, filename)

	if s.maskingEnabled {
		toSave = maskArtifact(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// tmp then rename, so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, domain.RunRef{
			ID:        toSave.ID,
			File:      filename,
			Env:       toSave.EnvironmentName,
			StartedAt: ts,
			Failures:  toSave.Failures(),
		})
	}

	return toSave.ID, nil
}

func (s *JSONStore) appendIndex(dir string, ref domain.RunRef) error {
	line, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// ListRuns returns persisted runs, newest first. It reads the index when
// present and falls back to scanning run files.
func (s *JSONStore) ListRuns() ([]domain.RunRef, error) {
	dir := s.Dir()

	refs, err := s.readIndex(dir)
	if err != nil {
		refs, err = s.scanDir(dir)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].StartedAt.Equal(refs[j].StartedAt) {
			return refs[i].ID > refs[j].ID
		}
		return refs[i].StartedAt.After(refs[j].StartedAt)
	})
	return refs, nil
}

func (s *JSONStore) readIndex(dir string) ([]domain.RunRef, error) {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var refs []domain.RunRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ref domain.RunRef
		if err := json.Unmarshal(line, &ref); err != nil {
			// A torn line from an interrupted append is skipped.
			continue
		}
		refs = append(refs, ref)
	}
	return refs, sc.Err()
}

func (s *JSONStore) scanDir(dir string) ([]domain.RunRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.RunRef{}, nil
		}
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	refs := []domain.RunRef{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var run domain.RunArtifact
		if err := json.Unmarshal(b, &run); err != nil {
			continue
		}
		refs = append(refs, domain.RunRef{
			ID:        run.ID,
			File:      e.Name(),
			Env:       run.EnvironmentName,
			StartedAt: run.StartedAt,
			Failures:  run.Failures(),
		})
	}
	return refs, nil
}

// LoadRun returns the raw JSON of a run. id may be the run ID or its file stem.
func (s *JSONStore) LoadRun(id string) ([]byte, error) {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".json")
	dir := s.Dir()

	if id != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+id+".json"))
		if err == nil {
			for _, m := range matches {
				stem := strings.TrimSuffix(filepath.Base(m), ".json")
				if stem == id || strings.HasSuffix(stem, "_"+id) {
					return os.ReadFile(m)
				}
			}
		}
	}

	return nil, &domain.OpError{
		Op:   "runstore.load",
		Kind: domain.KindNotFound,
		Path: filepath.Join(dir, id),
		Err:  domain.ErrNotFound,
	}
}

// maskArtifact returns a masked copy (does NOT mutate the input).
// Sensitive setting values are also scrubbed from assertion and error messages.
func maskArtifact(run domain.RunArtifact) domain.RunArtifact {
	out := run

	var secrets []string
	out.Settings = domain.Vars{}
	for k, v := range run.Settings {
		if domain.IsSensitiveKey(k) {
			out.Settings[k] = maskValue
			if v != "" {
				secrets = append(secrets, v)
			}
			continue
		}
		out.Settings[k] = v
	}
	if len(secrets) == 0 {
		return out
	}

	scrub := func(s string) string {
		for _, sec := range secrets {
			s = strings.ReplaceAll(s, sec, maskValue)
		}
		return s
	}

	out.Backends = make([]domain.BackendResult, len(run.Backends))
	for i, b := range run.Backends {
		cb := b
		if b.Error != nil {
			e := *b.Error
			e.Message = scrub(e.Message)
			cb.Error = &e
		}
		cb.Scenarios = make([]domain.ScenarioResult, len(b.Scenarios))
		for j, sr := range b.Scenarios {
			c := sr
			c.Assertions = make([]domain.AssertionResult, len(sr.Assertions))
			for k, a := range sr.Assertions {
				a.Message = scrub(a.Message)
				c.Assertions[k] = a
			}
			if sr.Error != nil {
				e := *sr.Error
				e.Message = scrub(e.Message)
				c.Error = &e
			}
			cb.Scenarios[j] = c
		}
		out.Backends[i] = cb
	}

	return out
}

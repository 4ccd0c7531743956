// file: internals/features/content/service/content_store.go
package service

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	helper "centrotreino_backend/internals/helpers"
)

// Record is one content entry as written by the editors. Keys are kept as-is.
type Record map[string]any

var (
	Singletons  = []string{"home", "about", "contact", "settings"}
	Collections = []string{"pricing", "gallery", "testimonials", "features", "navigation"}
)

var (
	ErrUnknownContent = errors.New("unknown content type")
	ErrNotFound       = errors.New("content not found")
)

// raw HTML in markdown stays escaped
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Store reads the content directory on every call, so edits show up without a
// restart.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func known(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// Singleton loads <dir>/<name>/index.yaml.
func (s *Store) Singleton(name string) (Record, error) {
	if !known(Singletons, name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContent, name)
	}

	var (
		raw []byte
		err error
	)
	for _, file := range []string{"index.yaml", "index.yml"} {
		raw, err = os.ReadFile(filepath.Join(s.Dir, name, file))
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			break
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rec, err := parseYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return rec, nil
}

// Collection loads every yaml/yml/md file of <dir>/<name>, sorted by their
// order field and then by slug. The slug comes from the file name; records
// without an order come last. A missing directory is an empty collection.
func (s *Store) Collection(name string) ([]Record, error) {
	if !known(Collections, name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContent, name)
	}

	dir := filepath.Join(s.Dir, name)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(entries))
	taken := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".md" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		var rec Record
		if ext == ".md" {
			rec, err = parseMarkdown(raw)
		} else {
			rec, err = parseYAML(raw)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s/%s: %w", name, e.Name(), err)
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		rec["slug"] = helper.UniqueSlug(taken, helper.Slugify(base, 0), 0)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, iok := order(out[i])
		oj, jok := order(out[j])
		if iok != jok {
			return iok
		}
		if iok && oi != oj {
			return oi < oj
		}
		return fmt.Sprint(out[i]["slug"]) < fmt.Sprint(out[j]["slug"])
	})
	return out, nil
}

// parseYAML never returns a nil record: an empty or null document is an
// empty record.
func parseYAML(raw []byte) (Record, error) {
	rec := Record{}
	if err := yaml.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// parseMarkdown reads the front matter into the record and renders the rest
// into "html". The markdown source is kept in "body".
func parseMarkdown(raw []byte) (Record, error) {
	front, body := splitFrontMatter(raw)

	rec, err := parseYAML(front)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return rec, nil
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert(body, &buf); err != nil {
		return nil, err
	}
	rec["body"] = string(body)
	rec["html"] = buf.String()
	return rec, nil
}

func splitFrontMatter(raw []byte) (front, body []byte) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return nil, []byte(text)
	}
	rest := text[len("---\n"):]
	if strings.HasPrefix(rest, "---\n") {
		return nil, []byte(rest[len("---\n"):])
	}
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, []byte(text)
	}
	front = []byte(rest[:end])
	rest = rest[end+len("\n---"):]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}
	return front, []byte(rest)
}

func order(r Record) (float64, bool) {
	switch v := r["order"].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

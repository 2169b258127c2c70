// Package dictionary holds the reference set of known trademarks that the
// matcher consults before (or instead of) a remote registry.
package dictionary

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scbrown/tmcheck/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrDuplicateKey is returned when two entries normalize to the same term.
var ErrDuplicateKey = errors.New("duplicate trademark term")

// Dictionary is an immutable, ordered set of reference entries keyed by
// normalized term.
type Dictionary struct {
	entries []model.Entry
	index   map[string]int
}

type file struct {
	Trademarks []model.Entry `yaml:"trademarks"`
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("dictionary: built-in data is invalid: %v", err))
	}
	return d
}

// Load reads a YAML dictionary file. An empty path returns Default().
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes YAML of the form {trademarks: [{term, owner, severity, category}]}.
func Parse(data []byte) (*Dictionary, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	return New(f.Trademarks)
}

// New builds a Dictionary from entries, normalizing each term. Entries keep
// their given order. Empty terms, invalid severities and duplicate keys are
// rejected.
func New(entries []model.Entry) (*Dictionary, error) {
	d := &Dictionary{
		entries: make([]model.Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		e.Term = model.Normalize(e.Term)
		if e.Term == "" {
			return nil, fmt.Errorf("entry %d: term must be non-empty", i)
		}
		if !e.Severity.Valid() {
			return nil, fmt.Errorf("entry %q: invalid severity %q", e.Term, e.Severity)
		}
		if _, dup := d.index[e.Term]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, e.Term)
		}
		d.index[e.Term] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// Lookup returns the entry whose key equals the normalized term.
func (d *Dictionary) Lookup(term string) (model.Entry, bool) {
	i, ok := d.index[model.Normalize(term)]
	if !ok {
		return model.Entry{}, false
	}
	return d.entries[i], true
}

// Containing returns the first entry, in dictionary order, whose key
// contains the normalized term or is contained by it.
func (d *Dictionary) Containing(term string) (model.Entry, bool) {
	t := model.Normalize(term)
	if t == "" {
		return model.Entry{}, false
	}
	for _, e := range d.entries {
		if strings.Contains(t, e.Term) || strings.Contains(e.Term, t) {
			return e, true
		}
	}
	return model.Entry{}, false
}

// Keys returns all keys in dictionary order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Term
	}
	return keys
}

// Entries returns a copy of all entries in dictionary order.
func (d *Dictionary) Entries() []model.Entry {
	return append([]model.Entry(nil), d.entries...)
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Package xcstrings implements reading and writing of Apple string catalogs
// (.xcstrings files).
//
// A string catalog is a JSON document of the form:
//
//	{
//	  "sourceLanguage" : "en",
//	  "strings" : {
//	    "greeting" : {
//	      "localizations" : {
//	        "en" : {
//	          "stringUnit" : {
//	            "state" : "translated",
//	            "value" : "Hi"
//	          }
//	        }
//	      }
//	    }
//	  },
//	  "version" : "1.0"
//	}
//
// Only the shape above is interpreted. Everything else (comments, extraction
// state, plural variations, substitutions) is carried through unchanged.
//
// Round-trip fidelity: member order of every object is preserved and
// untouched scalar values are written back byte for byte.
package xcstrings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StateTranslated is the stringUnit state written for new localizations.
const StateTranslated = "translated"

// Catalog is a parsed string catalog.
type Catalog struct {
	root    *node
	strings *node
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Load reads and parses a catalog from disk. A missing or unreadable file
// yields *FileAccessError, malformed content *FormatError.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	c, err := Parse(data)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Parse parses catalog content.
func Parse(data []byte) (*Catalog, error) {
	if !json.Valid(data) {
		// Re-decode to get a positioned syntax error.
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &FormatError{Err: err}
	}

	root, err := parseNode(data)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	if !root.isObject() {
		return nil, &FormatError{Err: errors.New("top-level value is not an object")}
	}
	strs := root.get("strings")
	if !strs.isObject() {
		return nil, &FormatError{Err: errors.New(`missing "strings" object`)}
	}

	return &Catalog{root: root, strings: strs}, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// SourceLanguage returns the catalog's sourceLanguage, or "" if absent.
func (c *Catalog) SourceLanguage() string {
	s, _ := c.root.get("sourceLanguage").str()
	return s
}

// Version returns the catalog format version, or "" if absent.
func (c *Catalog) Version() string {
	s, _ := c.root.get("version").str()
	return s
}

// Keys returns all string keys in document order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.strings.keys))
	copy(keys, c.strings.keys)
	return keys
}

// Len returns the number of string entries.
func (c *Catalog) Len() int { return len(c.strings.keys) }

// Entry returns the entry for key, or nil if the key does not exist.
func (c *Catalog) Entry(key string) *Entry {
	n, ok := c.strings.vals[key]
	if !ok {
		return nil
	}
	return &Entry{Key: key, n: n}
}

// Entries returns all entries in document order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, 0, len(c.strings.keys))
	for _, k := range c.strings.keys {
		out = append(out, &Entry{Key: k, n: c.strings.vals[k]})
	}
	return out
}

// Languages returns the union of localization codes used by any entry, in
// order of first appearance.
func (c *Catalog) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, e := range c.Entries() {
		for _, l := range e.Languages() {
			if !seen[l] {
				seen[l] = true
				langs = append(langs, l)
			}
		}
	}
	return langs
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the catalog in Xcode's pretty-printed layout.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	c.root.write(&buf, 0)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile serialises the catalog and replaces path with the result. The
// content is written to a temporary file in the same directory first, so a
// failed write never leaves a truncated catalog behind.
func (c *Catalog) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &FileAccessError{Op: "write", Path: path, Err: fmt.Errorf("replacing file: %w", err)}
	}
	return nil
}

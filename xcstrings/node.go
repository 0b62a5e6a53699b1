package xcstrings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Ordered JSON tree
// ---------------------------------------------------------------------------

type kind int

const (
	kindScalar kind = iota // string, number, bool, null (raw token bytes)
	kindObject
	kindArray
)

// node is one JSON value. Objects keep member order; scalars keep the exact
// bytes they were read from so untouched values are written back verbatim.
type node struct {
	kind  kind
	raw   []byte
	keys  []string
	vals  map[string]*node
	items []*node
}

func newObject() *node {
	return &node{kind: kindObject, vals: make(map[string]*node)}
}

func newString(s string) *node {
	return &node{kind: kindScalar, raw: encodeString(s)}
}

// parseNode builds a node from a single JSON value.
func parseNode(data []byte) (*node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty value")
	}
	switch data[0] {
	case '{':
		return parseObject(data)
	case '[':
		return parseArray(data)
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid value %s", truncate(string(data), 40))
		}
		return &node{kind: kindScalar, raw: append([]byte(nil), data...)}, nil
	}
}

func parseObject(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected '{', got %v", tok)
	}

	n := newObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		child, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		n.set(key, child)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseArray(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected '[', got %v", tok)
	}

	n := &node{kind: kindArray}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("array item %d: %w", len(n.items), err)
		}
		child, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", len(n.items), err)
		}
		n.items = append(n.items, child)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (n *node) isObject() bool { return n != nil && n.kind == kindObject }

func (n *node) isNull() bool {
	return n == nil || (n.kind == kindScalar && string(n.raw) == "null")
}

// get returns the member value of an object node, or nil.
func (n *node) get(key string) *node {
	if !n.isObject() {
		return nil
	}
	return n.vals[key]
}

func (n *node) has(key string) bool {
	if !n.isObject() {
		return false
	}
	_, ok := n.vals[key]
	return ok
}

// set adds or replaces a member; new members go to the end.
func (n *node) set(key string, v *node) {
	if _, ok := n.vals[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.vals[key] = v
}

// str decodes a string scalar.
func (n *node) str() (string, bool) {
	if n == nil || n.kind != kindScalar || len(n.raw) == 0 || n.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(n.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// write emits n in Xcode's pretty format: two-space indentation, `"key" : value`
// separators and empty containers rendered with a blank line.
func (n *node) write(buf *bytes.Buffer, depth int) {
	switch n.kind {
	case kindObject:
		if len(n.keys) == 0 {
			buf.WriteString("{\n\n")
			writeIndent(buf, depth)
			buf.WriteByte('}')
			return
		}
		buf.WriteString("{\n")
		for i, k := range n.keys {
			writeIndent(buf, depth+1)
			buf.Write(encodeString(k))
			buf.WriteString(" : ")
			n.vals[k].write(buf, depth+1)
			if i < len(n.keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	case kindArray:
		if len(n.items) == 0 {
			buf.WriteString("[\n\n")
			writeIndent(buf, depth)
			buf.WriteByte(']')
			return
		}
		buf.WriteString("[\n")
		for i, item := range n.items {
			writeIndent(buf, depth+1)
			item.write(buf, depth+1)
			if i < len(n.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	default:
		buf.Write(n.raw)
	}
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// encodeString returns s as a JSON string literal. Non-ASCII text and
// HTML-sensitive characters are left unescaped.
func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
